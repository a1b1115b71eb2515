package transport

import "context"

// MockTransport is a mock implementation of the Interface for testing
type MockTransport struct {
	FetchFunc                  func(ctx context.Context, url string) (string, error)
	FetchWithProgressFunc      func(ctx context.Context, url string, onProgress ProgressFunc) (string, error)
	FetchWithCacheFallbackFunc func(ctx context.Context, url string, onProgress ProgressFunc) (string, bool, error)
	TestConnectionFunc         func(ctx context.Context, url string) (bool, error)
}

// Fetch implements Interface.Fetch
func (m *MockTransport) Fetch(ctx context.Context, url string) (string, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url)
	}
	return "", nil
}

// FetchWithProgress implements Interface.FetchWithProgress
func (m *MockTransport) FetchWithProgress(ctx context.Context, url string, onProgress ProgressFunc) (string, error) {
	if m.FetchWithProgressFunc != nil {
		return m.FetchWithProgressFunc(ctx, url, onProgress)
	}
	return "", nil
}

// FetchWithCacheFallback implements Interface.FetchWithCacheFallback
func (m *MockTransport) FetchWithCacheFallback(ctx context.Context, url string, onProgress ProgressFunc) (string, bool, error) {
	if m.FetchWithCacheFallbackFunc != nil {
		return m.FetchWithCacheFallbackFunc(ctx, url, onProgress)
	}
	return "", false, nil
}

// TestConnection implements Interface.TestConnection
func (m *MockTransport) TestConnection(ctx context.Context, url string) (bool, error) {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx, url)
	}
	return false, nil
}
