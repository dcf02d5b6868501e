// Package config holds the immutable runtime configuration for both roles.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Role selects which end of a session this process runs.
type Role string

const (
	RoleHost   Role = "host"
	RoleClient Role = "client"
)

// Carrier selects the byte stream a session runs on.
type Carrier string

const (
	CarrierTCP       Carrier = "tcp"
	CarrierWebSocket Carrier = "ws"
)

// CredentialEnv is consulted when no credential flag is given.
const CredentialEnv = "AIRDESK_CREDENTIAL"

// TLS configures the optional transport wrap.
type TLS struct {
	// Host side.
	CertFile string
	KeyFile  string
	// Client side.
	Enabled  bool
	Insecure bool
}

// Config holds all runtime configuration.
type Config struct {
	Role         Role
	Address      string
	Port         int
	Quality      int
	FPS          int
	Credential   string
	DisplayIndex int
	Carrier      Carrier
	TLS          TLS
	Compression  bool
	BorderWidth  int
	MetricsAddr  string
	Once         bool
	Debug        bool
}

// Default returns the defaults for role.
func Default(role Role) Config {
	addr := "localhost"
	if role == RoleHost {
		addr = "0.0.0.0"
	}
	return Config{
		Role:        role,
		Address:     addr,
		Port:        9999,
		Quality:     70,
		FPS:         15,
		Carrier:     CarrierTCP,
		Compression: true,
		BorderWidth: 5,
	}
}

// BindFlags registers every flag for cfg's role on fs. Values in cfg are the
// flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Address, "address", "a", cfg.Address, "Bind address (host) or host address (client)")
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "TCP port")
	fs.StringVarP(&cfg.Credential, "credential", "c", cfg.Credential, "Shared session credential (or $"+CredentialEnv+")")
	fs.StringVar((*string)(&cfg.Carrier), "carrier", string(cfg.Carrier), "Stream carrier: tcp or ws")
	fs.BoolVar(&cfg.Compression, "compression", cfg.Compression, "LZ4 stage on frame payloads (must match on both ends)")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Serve /metrics and /healthz on this address (empty disables)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")

	if cfg.Role == RoleHost {
		fs.IntVarP(&cfg.Quality, "quality", "q", cfg.Quality, "JPEG quality (0-100, 0 encodes as 1)")
		fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target frames per second (1-60)")
		fs.IntVar(&cfg.DisplayIndex, "display", cfg.DisplayIndex, "Display index to capture (0 = primary)")
		fs.IntVar(&cfg.BorderWidth, "border", cfg.BorderWidth, "Session border width in pixels (0 disables)")
		fs.StringVar(&cfg.TLS.CertFile, "tls-cert", cfg.TLS.CertFile, "TLS certificate file")
		fs.StringVar(&cfg.TLS.KeyFile, "tls-key", cfg.TLS.KeyFile, "TLS private key file")
		fs.BoolVar(&cfg.Once, "once", cfg.Once, "Exit after the first session")
		return
	}
	fs.BoolVar(&cfg.TLS.Enabled, "tls", cfg.TLS.Enabled, "Connect with TLS")
	fs.BoolVar(&cfg.TLS.Insecure, "tls-insecure", cfg.TLS.Insecure, "Skip TLS certificate verification")
}

// ApplyEnv fills unset values from the environment.
func (c *Config) ApplyEnv() {
	if c.Credential == "" {
		c.Credential = os.Getenv(CredentialEnv)
	}
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.Role != RoleHost && c.Role != RoleClient {
		errs = append(errs, fmt.Errorf("role must be %q or %q, got %q", RoleHost, RoleClient, c.Role))
	}
	if strings.TrimSpace(c.Address) == "" {
		errs = append(errs, errors.New("address is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be 1-65535, got %d", c.Port))
	}
	if c.Quality < 0 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be 0-100, got %d", c.Quality))
	}
	if c.FPS < 1 || c.FPS > 60 {
		errs = append(errs, fmt.Errorf("fps must be 1-60, got %d", c.FPS))
	}
	if c.Credential == "" {
		errs = append(errs, errors.New("credential is required"))
	}
	if c.DisplayIndex < 0 {
		errs = append(errs, fmt.Errorf("display index must be >= 0, got %d", c.DisplayIndex))
	}
	if c.Carrier != CarrierTCP && c.Carrier != CarrierWebSocket {
		errs = append(errs, fmt.Errorf("carrier must be %q or %q, got %q", CarrierTCP, CarrierWebSocket, c.Carrier))
	}
	if c.BorderWidth < 0 {
		errs = append(errs, fmt.Errorf("border width must be >= 0, got %d", c.BorderWidth))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("tls-cert and tls-key must be given together"))
	}
	return errors.Join(errs...)
}

// Addr joins Address and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// HostTLS reports whether the host wraps connections in TLS.
func (c Config) HostTLS() bool {
	return c.TLS.CertFile != ""
}
