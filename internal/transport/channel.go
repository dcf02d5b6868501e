package transport

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/junsooki/airdesk/internal/protocol"
)

const (
	// KeySize is the session key length.
	KeySize = chacha20poly1305.KeySize

	// MaxMessageSize caps the ciphertext length a peer may announce.
	MaxMessageSize = 64 << 20

	lengthPrefixSize = 4
)

// Channel is one authenticated session. Send and Receive may run
// concurrently with each other, but each must have a single caller.
type Channel struct {
	id   uuid.UUID
	conn net.Conn
	aead cipher.AEAD

	bytesSent atomic.Uint64
	bytesRecv atomic.Uint64

	closeOnce sync.Once
	closeErr  error
	onClose   func()
}

func newChannel(conn net.Conn, key []byte) (*Channel, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	return &Channel{id: uuid.New(), conn: conn, aead: aead}, nil
}

// ID identifies the session in logs and metrics.
func (c *Channel) ID() uuid.UUID { return c.id }

// RemoteAddr returns the peer address.
func (c *Channel) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// BytesSent returns the wire bytes written so far, prefixes included.
func (c *Channel) BytesSent() uint64 { return c.bytesSent.Load() }

// BytesReceived returns the wire bytes read so far, prefixes included.
func (c *Channel) BytesReceived() uint64 { return c.bytesRecv.Load() }

// Send encrypts msg and writes [len][nonce|ciphertext] in a single write.
func (c *Channel) Send(msg protocol.Message) error {
	plain, err := protocol.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	nonceSize := c.aead.NonceSize()
	sealedLen := nonceSize + len(plain) + c.aead.Overhead()
	if sealedLen > MaxMessageSize {
		return fmt.Errorf("%w: message of %d bytes exceeds limit", ErrSendFailed, sealedLen)
	}

	buf := make([]byte, lengthPrefixSize+nonceSize, lengthPrefixSize+sealedLen)
	binary.BigEndian.PutUint32(buf[:lengthPrefixSize], uint32(sealedLen))
	nonce := buf[lengthPrefixSize:]
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("%w: nonce: %w", ErrSendFailed, err)
	}
	buf = c.aead.Seal(buf, nonce, plain, nil)

	n, err := c.conn.Write(buf)
	c.bytesSent.Add(uint64(n))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}

// Receive reads and decrypts the next message. It returns ErrClosed when the
// peer closed at a message boundary, ErrRecvFailed when the stream broke
// inside a message, and ErrCorrupt or ErrMalformed for a bad but fully read
// message.
func (c *Channel) Receive() (protocol.Message, error) {
	sealed, err := c.readFrame()
	if err != nil {
		return nil, err
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize+c.aead.Overhead() {
		return nil, fmt.Errorf("%w: %d bytes is shorter than nonce and tag", ErrCorrupt, len(sealed))
	}
	plain, err := c.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	msg, err := protocol.Unmarshal(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return msg, nil
}

func (c *Channel) readFrame() ([]byte, error) {
	b, err := readFrame(c.conn)
	if err == nil {
		c.bytesRecv.Add(uint64(lengthPrefixSize + len(b)))
	}
	return b, err
}

// Close closes the underlying connection, unblocking any pending Send or
// Receive. It is safe to call more than once.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
	})
	return c.closeErr
}

// readFrame reads one [len][payload] unit. Payload length is limited by
// MaxMessageSize.
func readFrame(r io.Reader) ([]byte, error) {
	var hdr [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
			return nil, fmt.Errorf("%w: %w", ErrClosed, err)
		}
		return nil, fmt.Errorf("%w: length prefix: %w", ErrRecvFailed, err)
	}

	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxMessageSize {
		return nil, fmt.Errorf("%w: announced length %d exceeds %d", ErrRecvFailed, n, MaxMessageSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrRecvFailed, err)
	}
	return payload, nil
}

// writeFrame writes one unencrypted [len][payload] unit.
func writeFrame(w io.Writer, payload []byte) error {
	buf := make([]byte, lengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[lengthPrefixSize:], payload)
	_, err := w.Write(buf)
	return err
}
