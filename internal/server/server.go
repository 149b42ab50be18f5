// Package server hosts matches over SSH. Every session gets its own engine
// and a tcell screen bound to the session's pty.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/extended"
	"github.com/google/uuid"

	"github.com/diegok/neonpong/internal/app"
	"github.com/diegok/neonpong/internal/config"
	"github.com/diegok/neonpong/internal/game"
	"github.com/diegok/neonpong/internal/ui"
)

// Terminal used when the client's TERM has no terminfo entry
const fallbackTerm = "xterm-256color"

// ErrServerFull is returned when MaxSessions players are already connected
var ErrServerFull = errors.New("server is full")

// SessionInfo describes a connected player
type SessionInfo struct {
	ID      string
	User    string
	Term    string
	Started time.Time
}

type session struct {
	info   SessionInfo
	cancel context.CancelFunc
}

// Server manages the SSH listener and the active game sessions
type Server struct {
	cfg      *config.ServerConfig
	rules    game.Rules
	logger   *log.Logger
	srv      *ssh.Server
	listener net.Listener

	mu       sync.RWMutex
	sessions map[string]*session
	closed   bool
}

// NewServer creates a server with the given configuration
func NewServer(cfg *config.ServerConfig, logger *log.Logger) (*Server, error) {
	rules := game.DefaultRules()
	rules.PointsToWin = cfg.PointsToWin
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		rules:    rules,
		logger:   logger,
		sessions: make(map[string]*session),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		wish.WithMiddleware(
			s.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Start begins listening for connections
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("ssh server stopped", "err", err)
		}
	}()

	s.logger.Info("listening", "addr", listener.Addr().String())
	return nil
}

// Addr returns the bound address once Start succeeded
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop ends every running match and shuts the listener down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, sess := range s.sessions {
		sess.cancel()
	}
	s.mu.Unlock()

	if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// Sessions returns the connected players ordered by connect time
func (s *Server) Sessions() []SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, sess.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Started.Before(infos[j].Started)
	})
	return infos
}

// register reserves a slot for a new player
func (s *Server) register(parent context.Context, user, term string) (string, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", nil, ssh.ErrServerClosed
	}
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return "", nil, ErrServerFull
	}

	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	s.sessions[id] = &session{
		info:   SessionInfo{ID: id, User: user, Term: term, Started: time.Now()},
		cancel: cancel,
	}
	return id, ctx, nil
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.cancel()
		delete(s.sessions, id)
	}
}

// gameMiddleware runs one match per SSH session
func (s *Server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			next(sess)
			return
		}

		id, ctx, err := s.register(sess.Context(), sess.User(), pty.Term)
		if err != nil {
			s.logger.Warn("session rejected", "user", sess.User(), "err", err)
			fmt.Fprintf(sess, "Sorry, %v. Try again later.\n", err)
			next(sess)
			return
		}
		defer s.unregister(id)

		logger := s.logger.With("session", id, "user", sess.User())
		logger.Info("session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		if err := s.play(ctx, sess, pty, winCh, logger); err != nil {
			logger.Error("session failed", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// play binds a screen to the session and runs a match until the player quits
func (s *Server) play(ctx context.Context, sess ssh.Session, pty ssh.Pty, winCh <-chan ssh.Window, logger *log.Logger) error {
	tty := newSessionTty(sess, pty.Window.Width, pty.Window.Height)
	defer tty.Close()

	go func() {
		for {
			select {
			case win, ok := <-winCh:
				if !ok {
					return
				}
				tty.resize(win.Width, win.Height)
			case <-ctx.Done():
				return
			}
		}
	}()

	ti, err := terminfo.LookupTerminfo(pty.Term)
	if err != nil {
		logger.Warn("unknown terminal", "term", pty.Term, "fallback", fallbackTerm)
		if ti, err = terminfo.LookupTerminfo(fallbackTerm); err != nil {
			return fmt.Errorf("no terminfo for %s: %w", fallbackTerm, err)
		}
	}

	scr, err := tcell.NewTerminfoScreenFromTtyTerminfo(tty, ti)
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	screen, err := ui.Setup(scr)
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	engine, err := game.NewEngine(s.rules, game.Options{Logger: logger})
	if err != nil {
		return err
	}

	// No audio: sound would play on the host, not the player's machine
	return app.New(screen, engine, app.Options{Logger: logger}).Run(ctx)
}
