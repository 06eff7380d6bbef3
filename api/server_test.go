package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Verman94/PriceWebApp/core/pricing"
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/config"
	"github.com/Verman94/PriceWebApp/internal/store"
)

func testRequest() *PriceRequest {
	cfg := config.Default()
	cfg.Method = pricing.MethodNewGross
	return &PriceRequest{
		Dataset: &table.Dataset{
			FullList: []table.Product{{
				PartNo: "P1", OldBasePrice: 1600000, OldFinishedCostWithComp: 900000,
			}},
			ShortList: []table.Product{{
				PartNo: "P1", SuperBasePart: "P1", NewGross: 30,
			}},
		},
		Config: cfg,
	}
}

func postPrice(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/price", bytes.NewReader(data))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

// TestHealthAndVersion tests the liveness endpoints
func TestHealthAndVersion(t *testing.T) {
	s := NewServer("2.0.0-test", nil)

	for path, key := range map[string]string{"/health": "status", "/version": "version"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if body[key] == "" {
			t.Errorf("%s body = %v, want a %q field", path, body, key)
		}
	}
}

// TestPriceEndpoint tests a priced run over HTTP
func TestPriceEndpoint(t *testing.T) {
	s := NewServer("2.0.0-test", nil)
	w := postPrice(t, s, testRequest())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	var resp PriceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RequestID == "" || resp.InputHash == "" {
		t.Errorf("response missing identifiers: %+v", resp)
	}
	if resp.Method != string(pricing.MethodNewGross) {
		t.Errorf("method = %s, want %s", resp.Method, pricing.MethodNewGross)
	}
	if len(resp.FullList) != 1 {
		t.Fatalf("full list = %v, want the one priced product", resp.FullList)
	}
	if resp.RunID != "" {
		t.Error("run id set without a store")
	}
}

// TestPriceEndpointPersists tests run archiving when a store is configured
func TestPriceEndpointPersists(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	s := NewServer("2.0.0-test", st)
	w := postPrice(t, s, testRequest())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}

	var resp PriceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RunID == "" {
		t.Fatal("run id not set with a configured store")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+resp.RunID, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("get run status = %d, body = %s", rec.Code, rec.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("list runs status = %d", rec.Code)
	}
}

// TestPriceEndpointErrors tests the request validation surface
func TestPriceEndpointErrors(t *testing.T) {
	s := NewServer("2.0.0-test", nil)

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/price", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing dataset", func(t *testing.T) {
		w := postPrice(t, s, &PriceRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("bad method is a config error", func(t *testing.T) {
		req := testRequest()
		req.Config.Method = "Vibes"
		w := postPrice(t, s, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		var e ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
			t.Fatal(err)
		}
		if e.Code == "" || e.Message == "" {
			t.Errorf("error body = %+v, want code and message", e)
		}
	})

	t.Run("runs endpoints need a store", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
