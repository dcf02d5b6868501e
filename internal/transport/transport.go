// Package transport implements the encrypted, length-prefixed session
// channel shared by host and viewer, plus the carriers it runs on.
package transport

import (
	"net"
	"time"

	"github.com/junsooki/airdesk/internal/protocol"
)

// MessageSender sends one envelope. Implementations are used by a single
// sender per direction.
type MessageSender interface {
	Send(msg protocol.Message) error
}

// MessageReceiver blocks for the next envelope.
type MessageReceiver interface {
	Receive() (protocol.Message, error)
}

// Conn is a full session channel.
type Conn interface {
	MessageSender
	MessageReceiver
	Close() error
}

// WrapFunc upgrades a raw connection before the handshake, e.g. with TLS.
type WrapFunc func(net.Conn) (net.Conn, error)

// DefaultHandshakeTimeout bounds key exchange and authentication.
const DefaultHandshakeTimeout = 10 * time.Second

// Options configure both ends of a channel.
type Options struct {
	// Credential is the shared secret. The host compares it with the
	// viewer's Auth message; the viewer sends it.
	Credential string

	// Wrap, when set, is applied to every connection before the handshake.
	Wrap WrapFunc

	// HandshakeTimeout bounds the exchange up to authentication. Zero uses
	// DefaultHandshakeTimeout; negative disables it. Established sessions
	// have no read or write deadline.
	HandshakeTimeout time.Duration
}

func (o Options) handshakeTimeout() time.Duration {
	if o.HandshakeTimeout == 0 {
		return DefaultHandshakeTimeout
	}
	return o.HandshakeTimeout
}
