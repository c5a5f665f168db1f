// Package cli implements the docuflow command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driving"
	"github.com/docuflow-labs/docuflow-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root.
var (
	authService      driving.AuthService
	lifecycleService driving.LifecycleService
	signatureService driving.SignatureService
)

// Flags on the root command.
var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "docuflow",
	Short: "Client for the docuflow document workflow",
	Long: `docuflow is a command-line client for the docuflow electronic
document-management backend: create documents, route them through review
and approval, sign them, and archive them.

Examples:
  docuflow login alice@example.com
  docuflow document list
  docuflow document create --title "Q3 Report" --file report.pdf --assignee <user-id>
  docuflow document approve <document-id>
  docuflow sign <document-id> --signature signature.png`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

// Config carries the services the commands run against.
type Config struct {
	Auth      driving.AuthService
	Lifecycle driving.LifecycleService
	Signature driving.SignatureService
	Version   string
}

// SetConfig injects the wired services. Called once by the composition
// root before Execute.
func SetConfig(cfg Config) {
	authService = cfg.Auth
	lifecycleService = cfg.Lifecycle
	signatureService = cfg.Signature
	if cfg.Version != "" {
		version = cfg.Version
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
}
