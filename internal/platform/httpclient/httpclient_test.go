package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPostJSON_SendsBodyAndDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" || r.Header.Get("X-Token") != "abc" {
			http.Error(w, "bad headers", http.StatusBadRequest)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer ts.Close()

	c := New(2 * time.Second)
	var out struct {
		Echo string `json:"echo"`
	}
	err := c.PostJSON(context.Background(), ts.URL, map[string]string{"X-Token": "abc"}, map[string]string{"msg": "hola"}, &out)
	if err != nil {
		t.Fatalf("PostJSON error: %v", err)
	}
	if out.Echo != "hola" {
		t.Fatalf("expected echo hola, got %q", out.Echo)
	}
}

func TestDoJSON_Non2xxReturnsStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	err := New(time.Second).DoJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusBadGateway || se.Body != "nope" {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestDoJSON_RejectsRelativeURL(t *testing.T) {
	if err := New(0).DoJSON(context.Background(), http.MethodGet, "/relative", nil, nil, nil); err == nil {
		t.Fatalf("expected error for relative url")
	}
}
