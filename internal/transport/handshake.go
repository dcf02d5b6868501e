package transport

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/junsooki/airdesk/internal/protocol"
)

// Server runs the host side of the handshake on an accepted connection:
// optional wrap, raw key handoff, then exactly one Auth message. On any
// failure the connection is closed.
func Server(conn net.Conn, opts Options) (*Channel, error) {
	clearDeadline := setHandshakeDeadline(conn, opts)
	conn, err := wrap(conn, opts)
	if err != nil {
		return nil, err
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: generate key: %w", ErrHandshake, err)
	}
	if err := writeFrame(conn, key); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: send key: %w", ErrHandshake, err)
	}

	ch, err := newChannel(conn, key)
	if err != nil {
		conn.Close()
		return nil, err
	}

	msg, err := ch.Receive()
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: no credential: %w", ErrAuthFailed, err)
	}
	auth, ok := msg.(protocol.Auth)
	if !ok {
		ch.Close()
		return nil, fmt.Errorf("%w: first message was %s", ErrAuthFailed, msg.Kind())
	}
	if subtle.ConstantTimeCompare([]byte(auth.Credential), []byte(opts.Credential)) != 1 {
		ch.Close()
		return nil, fmt.Errorf("%w: credential mismatch", ErrAuthFailed)
	}

	if err := clearDeadline(); err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	return ch, nil
}

// Client runs the viewer side: optional wrap, key receipt, then the Auth
// message. A wrong credential is only observed later as the host closing the
// channel.
func Client(conn net.Conn, opts Options) (*Channel, error) {
	clearDeadline := setHandshakeDeadline(conn, opts)
	conn, err := wrap(conn, opts)
	if err != nil {
		return nil, err
	}

	key, err := readFrame(conn)
	if err != nil {
		conn.Close()
		if errors.Is(err, ErrClosed) {
			return nil, fmt.Errorf("%w: host closed before key exchange", ErrHandshake)
		}
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	if len(key) != KeySize {
		conn.Close()
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrHandshake, len(key), KeySize)
	}

	ch, err := newChannel(conn, key)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.Send(protocol.Auth{Credential: opts.Credential}); err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: send credential: %w", ErrHandshake, err)
	}

	if err := clearDeadline(); err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	return ch, nil
}

func wrap(conn net.Conn, opts Options) (net.Conn, error) {
	if opts.Wrap == nil {
		return conn, nil
	}
	wrapped, err := opts.Wrap(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: wrap: %w", ErrHandshake, err)
	}
	return wrapped, nil
}

func setHandshakeDeadline(conn net.Conn, opts Options) func() error {
	timeout := opts.handshakeTimeout()
	if timeout < 0 {
		return func() error { return nil }
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))
	return func() error {
		return conn.SetDeadline(time.Time{})
	}
}
