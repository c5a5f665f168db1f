// Command docuflow is the CLI client for the docuflow EDMS backend.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/docuflow-labs/docuflow-cli/internal/adapters/driven/api"
	"github.com/docuflow-labs/docuflow-cli/internal/adapters/driven/auth"
	configfile "github.com/docuflow-labs/docuflow-cli/internal/adapters/driven/config/file"
	"github.com/docuflow-labs/docuflow-cli/internal/adapters/driven/pdf"
	storagefile "github.com/docuflow-labs/docuflow-cli/internal/adapters/driven/storage/file"
	"github.com/docuflow-labs/docuflow-cli/internal/adapters/driving/cli"
	"github.com/docuflow-labs/docuflow-cli/internal/core/services"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docuflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := os.Getenv("DOCUFLOW_CONFIG_DIR")

	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if url := os.Getenv("DOCUFLOW_API_URL"); url != "" {
		settings.APIBaseURL = url
	}

	sessionStore, err := storagefile.NewSessionStore(configDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(settings.RequestTimeoutSeconds) * time.Second,
	}

	session := auth.NewSession(settings.APIBaseURL, sessionStore, httpClient)
	gateway := api.NewGateway(settings.APIBaseURL, session, httpClient)
	documents := api.NewClient(gateway)

	cli.SetConfig(cli.Config{
		Auth:      session,
		Lifecycle: services.NewLifecycleService(documents),
		Signature: services.NewSignaturePipeline(documents, pdf.NewStamper()),
		Version:   version,
	})

	cli.Execute()
	return nil
}
