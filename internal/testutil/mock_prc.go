// Package testutil provides testing utilities for the PRC client.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock PRC endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a request received by the mock server.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// MockPRC is a configurable mock PRC API server for testing.
type MockPRC struct {
	server *httptest.Server
	mu     sync.Mutex

	// Per-path response queues; the last response repeats once the queue drains.
	queues map[string][]MockResponse

	requests []RecordedRequest
	counts   map[string]int
}

// NewMockPRC creates a new mock PRC server.
func NewMockPRC() *MockPRC {
	mock := &MockPRC{
		queues: make(map[string][]MockResponse),
		counts: make(map[string]int),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

func (m *MockPRC) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	m.counts[r.URL.Path]++

	queue, ok := m.queues[r.URL.Path]
	var resp MockResponse
	if ok && len(queue) > 0 {
		resp = queue[0]
		if len(queue) > 1 {
			m.queues[r.URL.Path] = queue[1:]
		}
	}
	m.mu.Unlock()

	if !ok {
		resp = NewErrorResponse(http.StatusNotFound, 0, "Not found")
	}

	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// URL returns the mock server URL.
func (m *MockPRC) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPRC) Close() {
	m.server.Close()
}

// Reset clears all tracking counters, keeping configured responses.
func (m *MockPRC) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.counts = make(map[string]int)
}

// SetResponse configures a single repeating response for a path.
func (m *MockPRC) SetResponse(path string, resp MockResponse) {
	m.SetResponses(path, resp)
}

// SetResponses configures responses served in order for a path. The last one
// repeats for every further request.
func (m *MockPRC) SetResponses(path string, resps ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[path] = append([]MockResponse(nil), resps...)
}

// SetJSON configures a 200 response with v encoded as JSON.
func (m *MockPRC) SetJSON(path string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal fixture for %s: %v", path, err))
	}
	m.SetResponse(path, NewJSONResponse(string(data)))
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPRC) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// GetPathCount returns the number of requests made to path.
func (m *MockPRC) GetPathCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[path]
}

// LastRequest returns the most recent request, if any.
func (m *MockPRC) LastRequest() (RecordedRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Requests returns a copy of every recorded request.
func (m *MockPRC) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// NewJSONResponse creates a standard 200 OK JSON response with rate limit headers.
func NewJSONResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type":          "application/json; charset=utf-8",
			"X-RateLimit-Bucket":    "global",
			"X-RateLimit-Limit":     "35",
			"X-RateLimit-Remaining": "34",
			"X-RateLimit-Reset":     fmt.Sprintf("%d", time.Now().Add(time.Minute).Unix()),
		},
	}
}

// NewEmptyResponse creates a 200 OK response without a JSON body, as returned
// by command execution.
func NewEmptyResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
		},
	}
}

// NewErrorResponse creates an error response with a PRC error body.
func NewErrorResponse(status, code int, message string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"code": %d, "message": %q}`, code, message),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 response with code 4001 and a retry hint
// in seconds.
func NewRateLimitResponse(retryAfter float64) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       fmt.Sprintf(`{"code": 4001, "message": "You are being rate limited!", "retry_after": %g}`, retryAfter),
		Headers: map[string]string{
			"Content-Type":          "application/json; charset=utf-8",
			"X-RateLimit-Bucket":    "global",
			"X-RateLimit-Limit":     "35",
			"X-RateLimit-Remaining": "0",
		},
	}
}

// NewServerOfflineResponse creates a 422 response with code 3002.
func NewServerOfflineResponse() MockResponse {
	return NewErrorResponse(http.StatusUnprocessableEntity, 3002, "The server you are trying to access is currently offline.")
}
