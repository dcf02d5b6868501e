// AirDesk CLI entry point.
//
// A host shares its screen with one viewer over an encrypted stream; the
// viewer's pointer and keyboard are relayed back. Run with a subcommand
// (host, client) or with none for interactive prompts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/junsooki/airdesk/internal/config"
	"github.com/junsooki/airdesk/internal/util"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "airdesk",
		Short: "Share a screen with one remote viewer",
		Long: `AirDesk streams a host's screen to a single viewer over an
encrypted TCP or WebSocket connection and relays the viewer's mouse and
keyboard back into the host.

Run without a subcommand to be prompted for the role.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd.Context())
		},
	}
	rootCmd.Version = version

	rootCmd.AddCommand(
		hostCmd(),
		clientCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
}

func printBanner(role config.Role) {
	pterm.Info.Println(fmt.Sprintf("AirDesk %s v%s", role, version))
	pterm.Println()
}

// prepare finishes cfg after flag parsing: environment, prompts and
// validation.
func prepare(cfg *config.Config) error {
	if cfg.Debug {
		util.EnableDebug()
	}
	cfg.ApplyEnv()
	if cfg.Credential == "" {
		cfg.Credential = askCredential()
	}
	return cfg.Validate()
}

// runInteractive asks for the role and the few settings without defaults.
func runInteractive(ctx context.Context) error {
	role, _ := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"Host   - Share this screen", "Client - View a remote screen"}).
		WithDefaultText("Select your role").
		Show()
	pterm.Println()

	if strings.HasPrefix(role, "Host") {
		cfg := config.Default(config.RoleHost)
		if err := prepare(&cfg); err != nil {
			return err
		}
		return runHost(ctx, cfg)
	}

	cfg := config.Default(config.RoleClient)
	cfg.Address = askAddress(cfg.Address)
	if err := prepare(&cfg); err != nil {
		return err
	}
	return runClient(ctx, cfg)
}

// askCredential prompts with masked input until something is entered.
func askCredential() string {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("Session credential").
			WithMask("*").
			Show()
		pterm.Println()

		if cred := strings.TrimSpace(raw); cred != "" {
			return cred
		}
		util.LogWarning("credential must not be empty")
	}
}

func askAddress(def string) string {
	raw, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Host address").
		WithDefaultValue(def).
		Show()
	pterm.Println()

	if addr := strings.TrimSpace(raw); addr != "" {
		return addr
	}
	return def
}
