package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plant-shop/services"
	"plant-shop/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	store := storage.NewMemoryStore()
	return newRouter(services.NewPlantService(store, zap.NewNop()), store, zap.NewNop())
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func assertJSON(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	var got, exp any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if err := json.Unmarshal([]byte(want), &exp); err != nil {
		t.Fatalf("decode want: %v", err)
	}
	gotJSON, _ := json.Marshal(got)
	expJSON, _ := json.Marshal(exp)
	if string(gotJSON) != string(expJSON) {
		t.Errorf("body = %s, want %s", gotJSON, expJSON)
	}
}

const aloeBody = `{"name":"Aloe","image":"aloe.png","price":12.5,"is_in_stock":true}`

func TestPlantLifecycle(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodPost, "/plants", aloeBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body.String())
	}
	assertJSON(t, w, `{"id":1,"name":"Aloe","image":"aloe.png","price":12.5,"is_in_stock":true}`)

	w = do(t, router, http.MethodGet, "/plants/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	assertJSON(t, w, `{"id":1,"name":"Aloe","image":"aloe.png","price":12.5,"is_in_stock":true}`)

	w = do(t, router, http.MethodPatch, "/plants/1", `{"price":9.99}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body %s", w.Code, w.Body.String())
	}
	assertJSON(t, w, `{"id":1,"name":"Aloe","image":"aloe.png","price":9.99,"is_in_stock":true}`)

	w = do(t, router, http.MethodDelete, "/plants/1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("DELETE body = %q, want empty", w.Body.String())
	}

	for i := 0; i < 2; i++ {
		if w = do(t, router, http.MethodGet, "/plants/1", ""); w.Code != http.StatusNotFound {
			t.Fatalf("GET after delete status = %d", w.Code)
		}
	}
}

func TestUnknownIDReturns404WithID(t *testing.T) {
	router := newTestRouter()

	cases := []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPatch, `{"price":1}`},
		{http.MethodDelete, ""},
	}
	for _, tc := range cases {
		w := do(t, router, tc.method, "/plants/999", tc.body)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", tc.method, w.Code)
			continue
		}
		if msg, _ := decodeObject(t, w)["error"].(string); !strings.Contains(msg, "999") {
			t.Errorf("%s message %q does not mention 999", tc.method, msg)
		}
	}
}

func TestNonNumericIDReturns404(t *testing.T) {
	router := newTestRouter()
	if w := do(t, router, http.MethodGet, "/plants/abc", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListAfterCreates(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodGet, "/plants", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	assertJSON(t, w, `[]`)

	names := map[string]bool{"Aloe": true, "Fern": true, "Cactus": true}
	for name := range names {
		body := `{"name":"` + name + `","image":"x.png","price":1,"is_in_stock":false}`
		if w := do(t, router, http.MethodPost, "/plants/", body); w.Code != http.StatusCreated {
			t.Fatalf("POST %s status = %d", name, w.Code)
		}
	}

	w = do(t, router, http.MethodGet, "/plants/", "")
	var plants []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &plants); err != nil {
		t.Fatal(err)
	}
	if len(plants) != len(names) {
		t.Fatalf("got %d plants, want %d", len(plants), len(names))
	}
	ids := map[float64]bool{}
	for _, p := range plants {
		if len(p) != 5 {
			t.Errorf("plant has %d keys, want 5: %v", len(p), p)
		}
		if !names[p["name"].(string)] {
			t.Errorf("unexpected plant %v", p)
		}
		id := p["id"].(float64)
		if ids[id] {
			t.Errorf("duplicate id %v", id)
		}
		ids[id] = true
	}
}

func TestCreateValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "missing price", body: `{"name":"Aloe","image":"aloe.png","is_in_stock":true}`, wantMsg: "price"},
		{name: "null name", body: `{"name":null,"image":"aloe.png","price":1,"is_in_stock":true}`, wantMsg: "name"},
		{name: "malformed", body: `{"name":`, wantMsg: "invalid request body"},
		{name: "wrong type", body: `{"name":"Aloe","image":"aloe.png","price":"cheap","is_in_stock":true}`, wantMsg: "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/plants", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if msg, _ := decodeObject(t, w)["error"].(string); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error = %q, want containing %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestPatchIgnoresUnknownKeysAndRejectsNull(t *testing.T) {
	router := newTestRouter()
	if w := do(t, router, http.MethodPost, "/plants", aloeBody); w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d", w.Code)
	}

	w := do(t, router, http.MethodPatch, "/plants/1", `{"color":"green","is_in_stock":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d", w.Code)
	}
	assertJSON(t, w, `{"id":1,"name":"Aloe","image":"aloe.png","price":12.5,"is_in_stock":false}`)

	w = do(t, router, http.MethodPatch, "/plants/1", `{"image":null}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("PATCH null status = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodPatch, "/plants/1", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("PATCH malformed status = %d, want 400", w.Code)
	}
	if w = do(t, router, http.MethodPatch, "/plants/42", `not json`); w.Code != http.StatusNotFound {
		t.Fatalf("PATCH malformed on missing id status = %d, want 404", w.Code)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/plants", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()
	do(t, router, http.MethodPost, "/plants", aloeBody)

	w := do(t, router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "plants_created_total") {
		t.Error("metrics output lacks plants_created_total")
	}
}
