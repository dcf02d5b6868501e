package transport

import "errors"

var (
	// ErrConnectFailed reports a bind, accept or dial failure.
	ErrConnectFailed = errors.New("connect failed")
	// ErrHandshake reports a broken session-key exchange.
	ErrHandshake = errors.New("handshake failed")
	// ErrAuthFailed reports a rejected or missing credential. The connection
	// is closed and never retried.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrSendFailed reports a write error. The session cannot continue.
	ErrSendFailed = errors.New("send failed")
	// ErrRecvFailed reports a connection lost mid-message or an impossible
	// length prefix. Message boundaries are lost.
	ErrRecvFailed = errors.New("receive failed")
	// ErrClosed reports an orderly close at a message boundary.
	ErrClosed = errors.New("channel closed")
	// ErrCorrupt reports a message that failed decryption or integrity checks.
	ErrCorrupt = errors.New("corrupt message")
	// ErrMalformed reports a message that decrypted but did not decode.
	ErrMalformed = errors.New("malformed message")
)

// IsRecoverable reports whether err affects only the current message, so the
// receive loop may continue.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrCorrupt) || errors.Is(err, ErrMalformed)
}

// IsTerminal reports whether err ends the session.
func IsTerminal(err error) bool {
	return err != nil && !IsRecoverable(err)
}
