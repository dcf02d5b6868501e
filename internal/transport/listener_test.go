package transport

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/airdesk/internal/protocol"
)

type acceptResult struct {
	ch  *Channel
	err error
}

func acceptAsync(ctx context.Context, l *Listener) <-chan acceptResult {
	res := make(chan acceptResult, 1)
	go func() {
		ch, err := l.Accept(ctx)
		res <- acceptResult{ch, err}
	}()
	return res
}

func exchange(t *testing.T, host, viewer *Channel) {
	t.Helper()
	require.NoError(t, host.Send(protocol.Frame{Width: 2, Height: 2, Payload: []byte{1}}))
	msg, err := viewer.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.KindFrame, msg.Kind())

	require.NoError(t, viewer.Send(protocol.Key{Name: "a", Pressed: true}))
	msg, err = host.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.Key{Name: "a", Pressed: true}, msg)
}

func TestListenDial(t *testing.T) {
	ctx := context.Background()
	opts := Options{Credential: "secret"}

	l, err := Listen("127.0.0.1:0", opts)
	require.NoError(t, err)
	defer l.Close()

	res := acceptAsync(ctx, l)
	viewer, err := Dial(ctx, l.Addr().String(), opts)
	require.NoError(t, err)
	defer viewer.Close()

	r := <-res
	require.NoError(t, r.err)
	defer r.ch.Close()

	exchange(t, r.ch, viewer)
}

func TestListenerAuthFailureKeepsListening(t *testing.T) {
	ctx := context.Background()
	l, err := Listen("127.0.0.1:0", Options{Credential: "secret"})
	require.NoError(t, err)
	defer l.Close()

	res := acceptAsync(ctx, l)
	bad, err := Dial(ctx, l.Addr().String(), Options{Credential: "wrong"})
	require.NoError(t, err)
	defer bad.Close()

	r := <-res
	require.ErrorIs(t, r.err, ErrAuthFailed)
	_, err = bad.Receive()
	assert.True(t, IsTerminal(err))

	res = acceptAsync(ctx, l)
	good, err := Dial(ctx, l.Addr().String(), Options{Credential: "secret"})
	require.NoError(t, err)
	defer good.Close()

	r = <-res
	require.NoError(t, r.err)
	defer r.ch.Close()
	exchange(t, r.ch, good)
}

func TestListenerRefusesWhileBusy(t *testing.T) {
	ctx := context.Background()
	opts := Options{Credential: "secret", HandshakeTimeout: 2 * time.Second}
	l, err := Listen("127.0.0.1:0", opts)
	require.NoError(t, err)
	defer l.Close()

	res := acceptAsync(ctx, l)
	first, err := Dial(ctx, l.Addr().String(), opts)
	require.NoError(t, err)
	defer first.Close()
	r := <-res
	require.NoError(t, r.err)
	defer r.ch.Close()

	_, err = Dial(ctx, l.Addr().String(), opts)
	assert.ErrorIs(t, err, ErrHandshake)

	exchange(t, r.ch, first)
}

func TestAcceptHonoursContext(t *testing.T) {
	l, err := Listen("127.0.0.1:0", Options{Credential: "secret"})
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	res := acceptAsync(ctx, l)
	cancel()
	assert.ErrorIs(t, (<-res).err, context.Canceled)
}

func TestAcceptAfterClose(t *testing.T) {
	l, err := Listen("127.0.0.1:0", Options{Credential: "secret"})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = l.Accept(context.Background())
	assert.ErrorIs(t, err, ErrConnectFailed)
}

func TestDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), addr, Options{})
	assert.ErrorIs(t, err, ErrConnectFailed)
}

func TestWebSocketCarrier(t *testing.T) {
	ctx := context.Background()
	opts := Options{Credential: "secret"}

	wsl, err := ListenWebSocket("127.0.0.1:0", DefaultWebSocketPath)
	require.NoError(t, err)
	l := NewListener(wsl, opts)
	defer l.Close()

	res := acceptAsync(ctx, l)
	viewer, err := DialWebSocket(ctx, "ws://"+l.Addr().String()+DefaultWebSocketPath, opts)
	require.NoError(t, err)
	defer viewer.Close()

	r := <-res
	require.NoError(t, r.err)
	exchange(t, r.ch, viewer)

	require.NoError(t, r.ch.Close())
	_, err = viewer.Receive()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTLSWrap(t *testing.T) {
	ctx := context.Background()
	certFile, keyFile := writeSelfSigned(t)

	serverWrap, err := ServerTLS(certFile, keyFile)
	require.NoError(t, err)

	l, err := Listen("127.0.0.1:0", Options{Credential: "secret", Wrap: serverWrap})
	require.NoError(t, err)
	defer l.Close()

	res := acceptAsync(ctx, l)
	viewer, err := Dial(ctx, l.Addr().String(), Options{
		Credential: "secret",
		Wrap:       ClientTLS("localhost", true),
	})
	require.NoError(t, err)
	defer viewer.Close()

	r := <-res
	require.NoError(t, r.err)
	defer r.ch.Close()
	exchange(t, r.ch, viewer)
}

func TestServerTLSMissingFiles(t *testing.T) {
	_, err := ServerTLS("missing.pem", "missing.key")
	assert.Error(t, err)
}

func writeSelfSigned(t *testing.T) (certFile, keyFile string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certFile, keyFile
}
