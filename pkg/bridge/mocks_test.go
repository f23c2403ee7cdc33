package bridge

import (
	"context"

	"github.com/shouni/clip-image-kit/pkg/domain"
)

// --- Mocks ---

type mockCopyHandler struct {
	payloadErr  error
	urlErr      error
	lastPayload domain.TransportPayload
	lastURL     string
	payloadN    int
	urlN        int
}

func (m *mockCopyHandler) WritePayload(ctx context.Context, payload domain.TransportPayload) error {
	m.payloadN++
	m.lastPayload = payload
	return m.payloadErr
}

func (m *mockCopyHandler) WriteFromURL(ctx context.Context, rawURL string) error {
	m.urlN++
	m.lastURL = rawURL
	return m.urlErr
}
