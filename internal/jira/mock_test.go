package jira

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jtcli/jt/internal/config"
)

const testAuth = "Basic dXNlcjp0b2tlbg=="

// recordedRequest stores information about a request made to the mock server.
type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Query    map[string][]string
	Headers  http.Header
	Body     []byte
}

// mockResponse is a canned response for one route.
type mockResponse struct {
	StatusCode int
	Body       interface{}
}

// mockJira is a Jira stand-in that records requests and answers by
// "METHOD /path".
type mockJira struct {
	Server *httptest.Server

	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string]mockResponse
}

func newMockJira(t *testing.T) *mockJira {
	t.Helper()
	m := &mockJira{responses: make(map[string]mockResponse)}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *mockJira) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, recordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Query:    r.URL.Query(),
		Headers:  r.Header.Clone(),
		Body:     body,
	})
	resp, found := m.responses[r.Method+" "+r.URL.Path]
	m.mu.Unlock()

	if !found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["no route"]}`))
		return
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusNoContent || resp.Body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if s, ok := resp.Body.(string); ok {
		_, _ = w.Write([]byte(s))
		return
	}
	_ = json.NewEncoder(w).Encode(resp.Body)
}

// on registers a response for method and path.
func (m *mockJira) on(method, path string, status int, body interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[method+" "+path] = mockResponse{StatusCode: status, Body: body}
}

func (m *mockJira) requestsTo(method, path string) []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []recordedRequest
	for _, r := range m.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (m *mockJira) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockJira) client() *Client {
	return NewClient(config.Credentials{Domain: m.Server.URL, AuthHeader: testAuth})
}
