package transport

import (
	"crypto/tls"
	"fmt"
	"net"
)

// ServerTLS returns a WrapFunc that terminates TLS with the given key pair.
func ServerTLS(certFile, keyFile string) (WrapFunc, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load tls key pair: %w", err)
	}
	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return func(conn net.Conn) (net.Conn, error) {
		tc := tls.Server(conn, cfg)
		if err := tc.Handshake(); err != nil {
			return nil, err
		}
		return tc, nil
	}, nil
}

// ClientTLS returns a WrapFunc that starts TLS toward serverName. insecure
// skips certificate verification, for self-signed hosts.
func ClientTLS(serverName string, insecure bool) WrapFunc {
	cfg := &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: insecure, //nolint:gosec // opt-in for self-signed hosts
		MinVersion:         tls.VersionTLS12,
	}
	return func(conn net.Conn) (net.Conn, error) {
		tc := tls.Client(conn, cfg)
		if err := tc.Handshake(); err != nil {
			return nil, err
		}
		return tc, nil
	}
}
