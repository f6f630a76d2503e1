package llm

import (
	"context"
	"sync/atomic"
)

// MockClient is a configurable in-memory Client for tests and for running
// the pipeline without credentials.
type MockClient struct {
	Response any
	Err      error
	Calls    atomic.Int32

	// GenerateFn, when set, overrides Response/Err per call.
	GenerateFn func(ctx context.Context, prompt string) (any, error)
}

// NewMock returns a mock client producing the given response. A nil response
// defaults to an empty JSON object.
func NewMock(response any) *MockClient {
	if response == nil {
		response = map[string]any{}
	}

	return &MockClient{Response: response}
}

func (m *MockClient) Name() ProviderName {
	return ProviderMock
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (any, error) {
	m.Calls.Add(1)

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	return m.Response, nil
}

var _ Client = (*MockClient)(nil)
