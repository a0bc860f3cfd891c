package mocks

import (
	"context"
	"sync"
)

// MockHealthChecker is a mock implementation of api.HealthChecker
type MockHealthChecker struct {
	mu    sync.Mutex
	Err   error
	Calls int
}

// NewMockHealthChecker returns a checker that reports healthy
func NewMockHealthChecker() *MockHealthChecker {
	return &MockHealthChecker{}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Err
}

// SetErr makes subsequent checks fail with err
func (m *MockHealthChecker) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}
