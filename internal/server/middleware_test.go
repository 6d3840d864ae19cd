package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviweb/internal/shared"
)

func TestRequestID(t *testing.T) {
	t.Run("generates id", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if seen == "" {
			t.Fatal("expected request id in context")
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("expected header %q, got %q", seen, rec.Header().Get(RequestIDHeader))
		}
	})

	t.Run("reuses client id", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		h.ServeHTTP(httptest.NewRecorder(), req)

		if seen != "abc-123" {
			t.Errorf("expected abc-123, got %q", seen)
		}
	})

	t.Run("empty without middleware", func(t *testing.T) {
		if id := RequestIDFrom(context.Background()); id != "" {
			t.Errorf("expected empty id, got %q", id)
		}
	})
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", http.StatusOK, "INFO"},
		{"redirect", http.StatusSeeOther, "INFO"},
		{"not found", http.StatusNotFound, "WARN"},
		{"server error", http.StatusInternalServerError, "ERRO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := shared.NewLogger(&buf)

			h := RequestID(AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/1", nil))

			out := buf.String()
			for _, want := range []string{tt.level, "path=/users/1", "method=GET", "request_id="} {
				if !strings.Contains(out, want) {
					t.Errorf("expected log to contain %q, got %q", want, out)
				}
			}
		})
	}

	t.Run("implicit 200", func(t *testing.T) {
		var buf bytes.Buffer
		h := AccessLog(shared.NewLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("hello"))
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if out := buf.String(); !strings.Contains(out, "status=200") || !strings.Contains(out, "bytes=5") {
			t.Errorf("expected status=200 bytes=5 in %q", out)
		}
	})
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(shared.NewLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

func TestServer(t *testing.T) {
	t.Run("New rejects bad timeouts", func(t *testing.T) {
		cfg := shared.ServerConfig{Host: "127.0.0.1", Port: 5001, ReadTimeout: "never"}
		if _, err := New(cfg, http.NotFoundHandler(), nil); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Serve stops on cancel", func(t *testing.T) {
		cfg := shared.ServerConfig{Host: "127.0.0.1", Port: 5001}
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		})

		srv, err := New(cfg, handler, log.New(io.Discard))
		if err != nil {
			t.Fatalf("failed to create server: %v", err)
		}
		if srv.Addr() != "127.0.0.1:5001" {
			t.Errorf("expected addr 127.0.0.1:5001, got %s", srv.Addr())
		}

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != "pong" {
			t.Errorf("expected pong, got %q", body)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(ShutdownTimeout + time.Second):
			t.Fatal("server did not shut down")
		}
	})
}
