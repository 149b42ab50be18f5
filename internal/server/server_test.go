package server

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diegok/neonpong/internal/config"
)

func newTestServer(t *testing.T, maxSessions int) *Server {
	t.Helper()
	cfg := config.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	cfg.MaxSessions = maxSessions

	s, err := NewServer(&cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s
}

func TestNewServer_InvalidPoints(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.PointsToWin = 0
	if _, err := NewServer(&cfg, log.New(io.Discard)); err == nil {
		t.Error("expected error for zero points")
	}
}

func TestRegister_MaxSessions(t *testing.T) {
	s := newTestServer(t, 2)
	ctx := context.Background()

	id1, _, err := s.register(ctx, "alice", "xterm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := s.register(ctx, "bob", "xterm"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := s.register(ctx, "carol", "xterm"); !errors.Is(err, ErrServerFull) {
		t.Errorf("expected ErrServerFull, got %v", err)
	}

	s.unregister(id1)
	if _, _, err := s.register(ctx, "carol", "xterm"); err != nil {
		t.Errorf("expected free slot after unregister, got %v", err)
	}
}

func TestRegister_Unlimited(t *testing.T) {
	s := newTestServer(t, 0)
	for i := 0; i < 20; i++ {
		if _, _, err := s.register(context.Background(), "player", "xterm"); err != nil {
			t.Fatalf("unexpected error on session %d: %v", i, err)
		}
	}
	if got := len(s.Sessions()); got != 20 {
		t.Errorf("expected 20 sessions, got %d", got)
	}
}

func TestSessions_Ordered(t *testing.T) {
	s := newTestServer(t, 0)
	id1, _, _ := s.register(context.Background(), "alice", "xterm")
	time.Sleep(time.Millisecond)
	id2, _, _ := s.register(context.Background(), "bob", "screen")

	infos := s.Sessions()
	if len(infos) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(infos))
	}
	if infos[0].ID != id1 || infos[1].ID != id2 {
		t.Errorf("expected sessions in connect order")
	}
	if infos[1].User != "bob" || infos[1].Term != "screen" {
		t.Errorf("unexpected session info: %+v", infos[1])
	}
	if id1 == id2 {
		t.Error("expected unique session ids")
	}
}

func TestUnregister_CancelsContext(t *testing.T) {
	s := newTestServer(t, 0)
	id, ctx, err := s.register(context.Background(), "alice", "xterm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.unregister(id)
	select {
	case <-ctx.Done():
	default:
		t.Error("expected session context cancelled")
	}
	if len(s.Sessions()) != 0 {
		t.Error("expected no sessions left")
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, 0)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.Addr() == nil {
		t.Fatal("expected bound address")
	}

	_, sessCtx, err := s.register(context.Background(), "alice", "xterm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	select {
	case <-sessCtx.Done():
	default:
		t.Error("expected Stop to cancel running sessions")
	}
	if _, _, err := s.register(context.Background(), "bob", "xterm"); err == nil {
		t.Error("expected register to fail after Stop")
	}
	if err := s.Stop(ctx); err != nil {
		t.Errorf("expected second Stop to be a no-op, got %v", err)
	}
}
