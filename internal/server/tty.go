package server

import (
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// sessionTty lets tcell drive a remote terminal over an SSH channel. Reads
// go through a pump goroutine so Drain can interrupt a blocked Read, which
// tcell needs to shut its input loop down.
type sessionTty struct {
	rw io.ReadWriter

	in      chan []byte
	pending []byte
	done    chan struct{}
	once    sync.Once

	mu       sync.Mutex
	size     tcell.WindowSize
	onResize func()
	drain    chan struct{}
}

var _ tcell.Tty = (*sessionTty)(nil)

func newSessionTty(rw io.ReadWriter, width, height int) *sessionTty {
	t := &sessionTty{
		rw:    rw,
		in:    make(chan []byte, 16),
		done:  make(chan struct{}),
		size:  tcell.WindowSize{Width: width, Height: height},
		drain: make(chan struct{}),
	}
	go t.pump()
	return t
}

func (t *sessionTty) pump() {
	defer close(t.in)
	buf := make([]byte, 256)
	for {
		n, err := t.rw.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case t.in <- chunk:
			case <-t.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (t *sessionTty) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.drain:
		t.drain = make(chan struct{})
	default:
	}
	return nil
}

func (t *sessionTty) Stop() error {
	return nil
}

// Drain makes a blocked Read return with no data
func (t *sessionTty) Drain() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.drain:
	default:
		close(t.drain)
	}
	return nil
}

func (t *sessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onResize = cb
}

func (t *sessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size, nil
}

// resize records a window-change request from the client
func (t *sessionTty) resize(width, height int) {
	t.mu.Lock()
	t.size = tcell.WindowSize{Width: width, Height: height}
	cb := t.onResize
	t.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (t *sessionTty) Read(p []byte) (int, error) {
	if len(t.pending) > 0 {
		n := copy(p, t.pending)
		t.pending = t.pending[n:]
		return n, nil
	}

	t.mu.Lock()
	drain := t.drain
	t.mu.Unlock()

	select {
	case chunk, ok := <-t.in:
		if !ok {
			return 0, io.EOF
		}
		n := copy(p, chunk)
		t.pending = chunk[n:]
		return n, nil
	case <-drain:
		return 0, nil
	case <-t.done:
		return 0, io.EOF
	}
}

func (t *sessionTty) Write(p []byte) (int, error) {
	return t.rw.Write(p)
}

// Close stops the pump. The SSH session itself is owned by the server.
func (t *sessionTty) Close() error {
	t.once.Do(func() { close(t.done) })
	return nil
}
