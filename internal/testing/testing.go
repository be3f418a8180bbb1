// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
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

// CountingTransport records how many requests reached the network.
type CountingTransport struct {
	Base  http.RoundTripper
	calls atomic.Int64
}

func (c *CountingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	base := c.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}

func (c *CountingTransport) Calls() int { return int(c.calls.Load()) }

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FailingStore is a key-value store whose every operation fails.
type FailingStore struct{}

func (FailingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk unavailable")
}
func (FailingStore) Set(context.Context, string, string) error { return errors.New("disk full") }
func (FailingStore) Delete(context.Context, string) error      { return errors.New("disk full") }
func (FailingStore) Close() error                              { return nil }

// SlowStore delays every read by Delay or until ctx is done.
type SlowStore struct {
	Delay time.Duration
}

func (s SlowStore) Get(ctx context.Context, _ string) (string, bool, error) {
	select {
	case <-time.After(s.Delay):
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
func (SlowStore) Set(context.Context, string, string) error { return nil }
func (SlowStore) Delete(context.Context, string) error      { return nil }
func (SlowStore) Close() error                              { return nil }

// FakeRemote is an in-memory remote endpoint set for one entity kind.
//
// Err, when set, fails every call. Calls counts every invocation including failed ones.
type FakeRemote[T models.Entity] struct {
	mu       sync.Mutex
	Items    []T
	Err      error
	Calls    int
	OnCreate func(T) T // assigns server ids
}

func (f *FakeRemote[T]) List(_ context.Context, credential string) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if credential == "" {
		return nil, shared.Unauthenticated()
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]T{}, f.Items...), nil
}

func (f *FakeRemote[T]) Create(_ context.Context, credential string, item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if credential == "" {
		return shared.Unauthenticated()
	}
	if f.Err != nil {
		return f.Err
	}
	if f.OnCreate != nil {
		item = f.OnCreate(item)
	}
	f.Items = append(f.Items, item)
	return nil
}

func (f *FakeRemote[T]) Update(_ context.Context, credential string, item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if credential == "" {
		return shared.Unauthenticated()
	}
	if f.Err != nil {
		return f.Err
	}
	for i, existing := range f.Items {
		if existing.EntityID() == item.EntityID() {
			f.Items[i] = item
			return nil
		}
	}
	return shared.Rejected(http.StatusNotFound, "not found")
}

func (f *FakeRemote[T]) Delete(_ context.Context, credential, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if credential == "" {
		return shared.Unauthenticated()
	}
	if f.Err != nil {
		return f.Err
	}
	for i, existing := range f.Items {
		if existing.EntityID() == id {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return shared.Rejected(http.StatusNotFound, "not found")
}

// CallCount returns Calls under the lock.
func (f *FakeRemote[T]) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls
}

// StaticSession is a fixed connectivity answer for collection managers.
type StaticSession struct {
	Online bool
	Token  string
}

func (s StaticSession) Connected() bool    { return s.Online }
func (s StaticSession) Credential() string { return s.Token }

// TouchFiles creates empty files under dir, creating parents as needed.
func TouchFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", path, err)
		}
	}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
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
