package listener

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// SessionRunner plays one builder session over a connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, id uuid.UUID, conn io.ReadWriter) error
}

// ConnectionManager hands accepted connections to the session runner and
// tracks how many are open.
type ConnectionManager struct {
	sessions SessionRunner

	mu   sync.Mutex
	open map[uuid.UUID]string
}

func NewConnectionManager(sessions SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sessions: sessions,
		open:     make(map[uuid.UUID]string),
	}
}

// AcceptConnection blocks for the lifetime of the session.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, protocol string, remote string, conn io.ReadWriter) {
	id := uuid.New()
	m.mu.Lock()
	m.open[id] = remote
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.open, id)
		m.mu.Unlock()
	}()

	slog.InfoContext(ctx, "session opened", "session", id, "protocol", protocol, "remote", remote)
	if err := m.sessions.RunSession(ctx, id, conn); err != nil {
		slog.WarnContext(ctx, "session ended", "session", id, "error", err)
		return
	}
	slog.InfoContext(ctx, "session closed", "session", id)
}

// OpenCount is the number of live sessions.
func (m *ConnectionManager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}
