package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/console"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Terminal Check ────────────────────────────────────────────────
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "record-console needs an interactive terminal; use the server for HTTP access")
		os.Exit(1)
	}

	cfg := config.Load()

	// Logs would corrupt the drawn screen, so they go to stderr only when
	// LOG_FILE is unset and stderr is not the same terminal.
	var out io.Writer = io.Discard
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	} else if !term.IsTerminal(int(os.Stderr.Fd())) {
		out = os.Stderr
	}
	log := logger.SetupWriter(out, cfg.LogLevel, "json")

	// ─── Session ───────────────────────────────────────────────────────
	records := repository.NewRecordRepository()
	formService := service.NewFormService(records, log)

	p := tea.NewProgram(console.NewModel(formService), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("Console exited with error")
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}

	log.Info().Int("records_discarded", records.Len()).Msg("Console closed")
}
