// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
)

// Call is one request received by a [FakeCatalog].
type Call struct {
	Method        string
	Resource      string
	Query         url.Values
	Body          string
	Authorization string
	ContentType   string
}

// FakeCatalog is an httptest server standing in for the YouTube Data API.
//
// Requests are routed by their last path segment ("search", "videos", ...).
// Resources without a handler answer 404 in the Google error envelope.
type FakeCatalog struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []Call
	handlers map[string]http.HandlerFunc
}

// NewFakeCatalog starts a fake catalog that is closed when t finishes.
func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()
	f := &FakeCatalog{handlers: map[string]http.HandlerFunc{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	resource := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Method:        r.Method,
		Resource:      resource,
		Query:         r.URL.Query(),
		Body:          string(body),
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	})
	h, ok := f.handlers[resource]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"no handler for ` + resource + `"}}`))
		return
	}
	h(w, r)
}

// Handle routes resource to h, replacing any earlier handler.
func (f *FakeCatalog) Handle(resource string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[resource] = h
}

// Respond answers every request for resource with status and body.
func (f *FakeCatalog) Respond(resource string, status int, body string) {
	f.Handle(resource, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// Calls returns every request received so far.
func (f *FakeCatalog) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the requests received for resource.
func (f *FakeCatalog) CallsTo(resource string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Resource == resource {
			out = append(out, c)
		}
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
