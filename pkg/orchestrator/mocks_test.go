package orchestrator

import (
	"context"
	"sync"

	"github.com/shouni/clip-image-kit/pkg/domain"
)

// --- Mocks ---

type mockFetcher struct {
	mu    sync.Mutex
	asset *domain.ImageAsset
	err   error
	calls int
}

func (m *mockFetcher) Fetch(ctx context.Context, req domain.ImageRequest) (*domain.ImageAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.asset, m.err
}

type mockConstrainer struct {
	out *domain.ImageAsset
	err error
}

func (m *mockConstrainer) Constrain(asset *domain.ImageAsset) (*domain.ImageAsset, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out != nil {
		return m.out, nil
	}
	return asset, nil
}

type mockSender struct {
	mu       sync.Mutex
	resp     domain.BridgeResponse
	requests []domain.BridgeRequest
}

func (m *mockSender) Send(ctx context.Context, req domain.BridgeRequest) domain.BridgeResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.resp
}

type mockLocal struct {
	err      error
	payloads []domain.TransportPayload
}

func (m *mockLocal) WritePayload(ctx context.Context, payload domain.TransportPayload) error {
	m.payloads = append(m.payloads, payload)
	return m.err
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}
