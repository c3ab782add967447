package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"plant-shop/models"
	"plant-shop/services"
	"plant-shop/storage"
)

const requestIDHeader = "X-Request-ID"

// newRouter baut den kompletten gin-Router mit Middleware und allen Routen.
func newRouter(svc *services.PlantService, store storage.PlantStore, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupHealthRoutes(router, store)
	setupPlantRoutes(router, svc, log)
	return router
}

// requestLogger vergibt eine Request-ID und loggt jede Anfrage mit zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		log.Info("HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func setupHealthRoutes(router *gin.Engine, store storage.PlantStore) {
	router.GET("/health", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

func setupPlantRoutes(router *gin.Engine, svc *services.PlantService, log *zap.Logger) {
	rg := router.Group("/plants")

	list := func(c *gin.Context) {
		plants, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, plants)
	}

	create := func(c *gin.Context) {
		var in models.PlantInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		plant, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, log, err)
			return
		}
		plantsCreatedCounter.Inc()
		c.JSON(http.StatusCreated, plant)
	}

	rg.GET("", list)
	rg.GET("/", list)
	rg.POST("", create)
	rg.POST("/", create)

	rg.GET("/:id", func(c *gin.Context) {
		id, ok := plantID(c)
		if !ok {
			return
		}
		plant, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, plant)
	})

	rg.PATCH("/:id", func(c *gin.Context) {
		id, ok := plantID(c)
		if !ok {
			return
		}
		var patch models.PlantPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			// 404 geht vor 400, wie bei einer fehlenden Ressource üblich
			if _, getErr := svc.Get(c.Request.Context(), id); getErr != nil {
				respondError(c, log, getErr)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		plant, err := svc.Update(c.Request.Context(), id, patch)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, plant)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id, ok := plantID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, log, err)
			return
		}
		plantsDeletedCounter.Inc()
		c.Status(http.StatusNoContent)
	})
}

// plantID liest die numerische ID aus dem Pfad. Nicht-numerische IDs matchen keine Pflanze.
func plantID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Plant with id %s not found", raw)})
		return 0, false
	}
	return uint(id), true
}

func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		notFound *services.NotFoundError
		missing  *services.MissingFieldError
		invalid  *services.InvalidFieldError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	default:
		log.Error("Plant request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	}
}
