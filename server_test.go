package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/marekdadej/Eventer/pkg/engine"
	"github.com/marekdadej/Eventer/pkg/logger"
)

func newTestServer() *Server {
	return NewServer(newTestApp(), logger.Nop())
}

func doRequest(t *testing.T, s *Server, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.fiber.Test(req, fiber.TestConfig{Timeout: 30 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func scriptBody(t *testing.T, src string) string {
	t.Helper()
	b, err := json.Marshal(Request{Script: src})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestHealthz(t *testing.T) {
	resp, body := doRequest(t, newTestServer(), http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestSceneEndpoint(t *testing.T) {
	s := newTestServer()
	resp, body := doRequest(t, s, http.MethodPost, "/api/scene", scriptBody(t, smallStage))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	var res struct {
		Config struct {
			MainType string `json:"mainType"`
		} `json:"config"`
		Instances []json.RawMessage `json:"instances"`
		Meshes    []json.RawMessage `json:"meshes"`
		Errors    []EvalErrorData   `json:"errors"`
		BOM       struct {
			Quantity int `json:"quantity"`
		} `json:"bom"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Config.MainType != "stageNoRoof" {
		t.Errorf("main type = %q", res.Config.MainType)
	}
	if len(res.Instances) == 0 || res.BOM.Quantity == 0 {
		t.Errorf("instances = %d, bom quantity = %d", len(res.Instances), res.BOM.Quantity)
	}
	if res.Meshes == nil || len(res.Meshes) != 0 {
		t.Errorf("meshes = %v, want []", res.Meshes)
	}
}

func TestSceneEndpointEmptyBody(t *testing.T) {
	resp, body := doRequest(t, newTestServer(), http.MethodPost, "/api/scene", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
}

func TestEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"scene bad json", "/api/scene", "{", http.StatusBadRequest},
		{"scene script error", "/api/scene", `{"script":"(stage :colour 1)"}`, http.StatusUnprocessableEntity},
		{"bom script error", "/api/bom", `{"script":"(stage"}`, http.StatusUnprocessableEntity},
		{"plan bad json", "/api/plan.png", "[1,", http.StatusBadRequest},
		{"export script error", "/api/export", `{"script":"(env)"}`, http.StatusUnprocessableEntity},
	}
	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, s, http.MethodPost, tt.target, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.want, body)
			}
		})
	}
}

func TestBOMEndpoint(t *testing.T) {
	tests := []struct {
		query       string
		contentType string
		prefix      string
	}{
		{"", "application/json", "{"},
		{"?format=csv", "text/csv", "catalogNumber,"},
		{"?format=text", "text/plain", "catalog no."},
	}
	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := doRequest(t, s, http.MethodPost, "/api/bom"+tt.query, scriptBody(t, smallStage))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("content type = %q, want %q", ct, tt.contentType)
			}
			if !strings.HasPrefix(string(body), tt.prefix) {
				t.Errorf("body starts %.40q, want %q", body, tt.prefix)
			}
		})
	}
}

func TestPlanEndpoints(t *testing.T) {
	s := newTestServer()

	resp, body := doRequest(t, s, http.MethodPost, "/api/plan.png?width=200&height=150", scriptBody(t, smallStage))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("png status = %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get("Content-Type") != "image/png" || !strings.HasPrefix(string(body), "\x89PNG") {
		t.Errorf("png response: %q %.8q", resp.Header.Get("Content-Type"), body)
	}

	resp, body = doRequest(t, s, http.MethodPost, "/api/plan.svg?title=main", scriptBody(t, smallStage))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("svg status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "<svg") || !strings.Contains(string(body), "main") {
		t.Errorf("svg body lacks the drawing or title")
	}
}

func TestExportEndpoint(t *testing.T) {
	resp, body := doRequest(t, newTestServer(), http.MethodPost, "/api/export?flat=true", scriptBody(t, smallStage))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var instances []json.RawMessage
	if err := json.Unmarshal(body, &instances); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(instances) == 0 {
		t.Error("no instances exported")
	}
}

func TestSceneStatus(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	app := newTestApp()

	tests := []struct {
		name string
		res  EvalResult
		want int
	}{
		{"built", app.Evaluate(context.Background(), Request{Script: smallStage}, false), http.StatusOK},
		{"script error", app.Evaluate(context.Background(), Request{Script: "(stage :width 4"}, false), http.StatusUnprocessableEntity},
		{"tessellation failed", app.Evaluate(cancelled, Request{Script: smallStage}, true), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sceneStatus(tt.res); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScriptFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", fmt.Errorf("%w after 5s", engine.ErrTimeout), true},
		{"superseded", engine.ErrSuperseded, false},
		{"cancelled", context.Canceled, false},
		{"other", errors.New("disk full"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scriptFault(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
