package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apodserver/pkg/logging"
)

// TestChain_ExecutionOrder verifies first added is outermost middleware.
func TestChain_ExecutionOrder(t *testing.T) {
	var executionLog []string

	stage := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				executionLog = append(executionLog, "start-"+name)
				next.ServeHTTP(w, r)
				executionLog = append(executionLog, "end-"+name)
			})
		}
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		executionLog = append(executionLog, "handler")
		w.WriteHeader(http.StatusOK)
	})

	chained := Chain(stage("1"), stage("2"))(handler)
	chained.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	expected := []string{"start-1", "start-2", "handler", "end-2", "end-1"}
	if len(executionLog) != len(expected) {
		t.Fatalf("expected %d log entries, got %d", len(expected), len(executionLog))
	}
	for i, exp := range expected {
		if executionLog[i] != exp {
			t.Errorf("log[%d]: expected %s, got %s", i, exp, executionLog[i])
		}
	}
}

// TestChain_Empty verifies an empty chain returns the handler itself.
func TestChain_Empty(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	Chain()(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Error("expected handler to be called")
	}
}

// TestLogger tests request logging middleware.
func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		level         string
	}{
		{"GET request", "GET", "/test-crud/test/123", http.StatusOK, "info"},
		{"POST request", "POST", "/test-crud/test", http.StatusOK, "info"},
		{"not found", "GET", "/nowhere", http.StatusNotFound, "info"},
		{"server error", "GET", "/apod/list/3", http.StatusInternalServerError, "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				_, _ = w.Write([]byte("ok"))
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			w := httptest.NewRecorder()
			Logger(&logger)(handler).ServeHTTP(w, req)

			if w.Code != tt.handlerStatus {
				t.Errorf("expected status %d, got %d", tt.handlerStatus, w.Code)
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log is not valid JSON: %v (%s)", err, buf.String())
			}
			if entry["message"] != "HTTP request" {
				t.Errorf("unexpected message %v", entry["message"])
			}
			if entry["level"] != tt.level {
				t.Errorf("level: expected %s, got %v", tt.level, entry["level"])
			}
			if entry["method"] != tt.method {
				t.Errorf("method: expected %s, got %v", tt.method, entry["method"])
			}
			if entry["path"] != tt.path {
				t.Errorf("path: expected %s, got %v", tt.path, entry["path"])
			}
			if status, ok := entry["status"].(float64); !ok || int(status) != tt.handlerStatus {
				t.Errorf("status: expected %d, got %v", tt.handlerStatus, entry["status"])
			}
			if n, ok := entry["bytes"].(float64); !ok || int(n) != 2 {
				t.Errorf("bytes: expected 2, got %v", entry["bytes"])
			}
			if entry["remote_addr"] != "192.168.1.1:12345" {
				t.Errorf("remote_addr: got %v", entry["remote_addr"])
			}
			if _, ok := entry["duration_ms"]; !ok {
				t.Error("log missing duration_ms field")
			}
		})
	}
}

// TestLogger_ContextLogger verifies handlers receive a request-scoped logger.
func TestLogger_ContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info().Msg("inside handler")
	})

	req := httptest.NewRequest("GET", "/apod/image", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	Logger(&logger)(handler).ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}
	if entry["message"] != "inside handler" {
		t.Errorf("unexpected first line %v", entry)
	}
	if entry["path"] != "/apod/image" {
		t.Errorf("handler log missing path: %v", entry)
	}
	if entry["request_id"] != "req-42" {
		t.Errorf("handler log missing request_id: %v", entry)
	}
}

// TestLogger_Duration verifies duration logging.
func TestLogger_Duration(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	Logger(&logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	durationFloat, ok := entry["duration_ms"].(float64)
	if !ok {
		t.Fatal("duration_ms field not found or wrong type")
	}
	if time.Duration(durationFloat*float64(time.Millisecond)) < 50*time.Millisecond {
		t.Errorf("duration too short: %vms", durationFloat)
	}
}

// TestRecovery tests panic recovery middleware.
func TestRecovery(t *testing.T) {
	tests := []struct {
		name        string
		shouldPanic bool
		panicValue  any
		writeFirst  bool
		wantStatus  int
		wantBody    string
	}{
		{
			name:       "no panic",
			wantStatus: http.StatusOK,
		},
		{
			name:        "panic with string",
			shouldPanic: true,
			panicValue:  "something went wrong",
			wantStatus:  http.StatusInternalServerError,
			wantBody:    `{"data":null,"error":"Internal Server Error"}` + "\n",
		},
		{
			name:        "panic with nil",
			shouldPanic: true,
			panicValue:  nil,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    `{"data":null,"error":"Internal Server Error"}` + "\n",
		},
		{
			name:        "panic after response started",
			shouldPanic: true,
			panicValue:  "late",
			writeFirst:  true,
			wantStatus:  http.StatusOK,
			wantBody:    "partial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.writeFirst {
					_, _ = w.Write([]byte("partial"))
				}
				if tt.shouldPanic {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("panic not recovered: %v", r)
					}
				}()
				Recovery(&logger)(handler).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
			}()

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, w.Body.String())
			}

			logged := strings.Contains(buf.String(), "Panic recovered")
			if logged != tt.shouldPanic {
				t.Errorf("panic logged = %v, want %v", logged, tt.shouldPanic)
			}
		})
	}
}

// TestRecovery_AbortHandler verifies http.ErrAbortHandler is re-raised.
func TestRecovery_AbortHandler(t *testing.T) {
	logger := zerolog.Nop()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if r := recover(); r != http.ErrAbortHandler {
			t.Errorf("expected ErrAbortHandler to propagate, got %v", r)
		}
	}()
	Recovery(&logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

// TestResponseWriter tests the responseWriter wrapper.
func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name         string
		writeHeader  bool
		statusCode   int
		expectedCode int
	}{
		{"explicit WriteHeader", true, http.StatusCreated, http.StatusCreated},
		{"default status (no WriteHeader)", false, 0, http.StatusOK},
		{"error status", true, http.StatusBadRequest, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			rw := &responseWriter{ResponseWriter: recorder, statusCode: http.StatusOK}

			if tt.writeHeader {
				rw.WriteHeader(tt.statusCode)
			}

			if rw.statusCode != tt.expectedCode {
				t.Errorf("expected statusCode=%d, got %d", tt.expectedCode, rw.statusCode)
			}
			if rw.written != tt.writeHeader {
				t.Errorf("expected written=%v, got %v", tt.writeHeader, rw.written)
			}
		})
	}
}
