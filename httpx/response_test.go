package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusNotFound, "not_found", map[string]string{"id": "42"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "not_found" {
		t.Fatalf("unexpected error code %q", body.Error)
	}
}

func TestJSON_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]any{"ch": make(chan int)})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Lomé"}`))
	if err := DecodeJSON(httptest.NewRecorder(), r, &dst); err != nil || dst.Name != "Lomé" {
		t.Fatalf("decode failed: %v %q", err, dst.Name)
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(httptest.NewRecorder(), r, &dst); err != ErrEmptyBody {
		t.Fatalf("expected ErrEmptyBody got %v", err)
	}
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got uint
	var ok bool
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, ok = PathID(r)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/7", nil))
	if !ok || got != 7 {
		t.Fatalf("expected 7 got %d ok=%v", got, ok)
	}
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/abc", nil))
	if ok {
		t.Fatalf("expected invalid id")
	}
}
