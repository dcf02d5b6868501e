package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/junsooki/airdesk/internal/util"
)

// Listener serves one session at a time. While a channel returned by Accept
// is open, new connections are refused. Otherwise one connection may wait
// for the next Accept call and any beyond it are refused.
type Listener struct {
	ln   net.Listener
	opts Options

	mu    sync.Mutex
	busy  bool
	conns chan net.Conn

	done chan struct{}
	err  error

	closeOnce sync.Once
}

// refuser is implemented by carriers that can tell a refused peer why.
type refuser interface {
	Refuse(reason string) error
}

// Listen binds a TCP listener on addr.
func Listen(addr string, opts Options) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %w", ErrConnectFailed, addr, err)
	}
	return NewListener(ln, opts), nil
}

// NewListener serves sessions from an existing net.Listener and takes
// ownership of it.
func NewListener(ln net.Listener, opts Options) *Listener {
	l := &Listener{
		ln:    ln,
		opts:  opts,
		conns: make(chan net.Conn, 1),
		done:  make(chan struct{}),
	}
	go l.acceptLoop()
	return l
}

func (l *Listener) acceptLoop() {
	defer close(l.done)
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			l.err = err
			return
		}

		l.mu.Lock()
		if l.busy {
			l.refuse(conn)
		} else {
			select {
			case l.conns <- conn:
			default:
				l.refuse(conn)
			}
		}
		l.mu.Unlock()
	}
}

func (l *Listener) refuse(conn net.Conn) {
	util.LogWarning("refusing %s: session in progress", conn.RemoteAddr())
	if r, ok := conn.(refuser); ok {
		_ = r.Refuse("session in progress")
		return
	}
	conn.Close()
}

// claim marks the listener busy until ch closes and turns away anyone
// already queued.
func (l *Listener) claim(ch *Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = true
	ch.onClose = func() {
		l.mu.Lock()
		l.busy = false
		l.mu.Unlock()
	}
	for {
		select {
		case conn := <-l.conns:
			l.refuse(conn)
		default:
			return
		}
	}
}

// Accept blocks until a peer connects and completes the handshake. Handshake
// and authentication failures are returned; the listener stays usable.
func (l *Listener) Accept(ctx context.Context) (*Channel, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.done:
		if l.err != nil && !errors.Is(l.err, net.ErrClosed) {
			return nil, fmt.Errorf("%w: accept: %w", ErrConnectFailed, l.err)
		}
		return nil, fmt.Errorf("%w: listener closed", ErrConnectFailed)
	case conn := <-l.conns:
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		ch, err := Server(conn, l.opts)
		if !stop() && err == nil {
			ch.Close()
			return nil, ctx.Err()
		}
		if err != nil {
			return nil, err
		}
		l.claim(ch)
		return ch, nil
	}
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting. Established channels are unaffected.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		err = l.ln.Close()
	})
	return err
}

// Dial connects to a host over TCP and runs the viewer handshake.
func Dial(ctx context.Context, addr string, opts Options) (*Channel, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrConnectFailed, addr, err)
	}
	return clientWithContext(ctx, conn, opts)
}

func clientWithContext(ctx context.Context, conn net.Conn, opts Options) (*Channel, error) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	ch, err := Client(conn, opts)
	if !stop() && err == nil {
		ch.Close()
		return nil, ctx.Err()
	}
	return ch, err
}
