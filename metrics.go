package main

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsCounter  *prometheus.CounterVec
	plantsCreatedCounter prometheus.Counter
	plantsDeletedCounter prometheus.Counter
	exportsCounter       *prometheus.CounterVec
)

func init() {
	httpRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
	plantsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plants_created_total",
			Help: "Total number of plants created.",
		},
	)
	plantsDeletedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plants_deleted_total",
			Help: "Total number of plants deleted.",
		},
	)
	exportsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_exports_total",
			Help: "Total number of plant table exports by result.",
		},
		[]string{"result"},
	)
	prometheus.MustRegister(httpRequestsCounter, plantsCreatedCounter, plantsDeletedCounter, exportsCounter)
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
