// Package main runs the terminal vault client: the onboarding wizard, the
// login form, and the vault session, all against the auth server at -url.
package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanli/vaultkeep/internal/client/api"
	"github.com/evanli/vaultkeep/internal/client/tui"
	"github.com/evanli/vaultkeep/internal/logger"
)

var (
	version   string
	buildDate string
)

func main() {
	var (
		baseURL string
		showVer bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Vault Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	// The terminal owns stdout, so the client logs stay no-op; failures
	// surface inside the forms instead.
	zapLogger := logger.New().Log

	backend, err := api.New(baseURL)
	if err != nil {
		log.Fatal(err)
	}

	app := tui.NewApp(backend, zapLogger)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
