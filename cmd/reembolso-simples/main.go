// reembolso-simples is the single-receipt flow: each user types their own
// Gemini API key into the form, so no extractor credential is configured on
// the server side.
package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/lucasvieira/reembolso/internal/expense"
	"github.com/lucasvieira/reembolso/internal/logging"
	"github.com/lucasvieira/reembolso/internal/report"
	"github.com/lucasvieira/reembolso/internal/scanning"
	"github.com/lucasvieira/reembolso/internal/web"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("reembolso-simples")
	var (
		port        = fs.IntLong("port", 8081, "HTTP server port")
		dbPath      = fs.StringLong("db", "", "Session database file path (in-memory sessions when empty)")
		reportsPath = fs.StringLong("reports", "./relatorios", "Archived reports directory")
		geminiModel = fs.StringLong("gemini-model", "gemini-1.5-flash", "Google Gemini model name")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("REEMBOLSO"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	logging.Setup()

	// Sessions live in memory unless a database path is given; a restart only
	// costs users their in-progress upload
	var store expense.Store
	if *dbPath != "" {
		slog.Info("Initializing session store...", "path", *dbPath)
		boltStore, err := expense.NewBoltStore(*dbPath)
		if err != nil {
			slog.Error("Failed to initialize session store", "error", err)
			os.Exit(1)
		}
		store = boltStore
	} else {
		store = expense.NewMemoryStore()
	}
	defer store.Close()

	slog.Info("Initializing report archive...", "path", *reportsPath)
	archive, err := expense.NewLocalArchive(*reportsPath)
	if err != nil {
		slog.Error("Failed to initialize report archive", "error", err)
		os.Exit(1)
	}

	// No default scanner: every extraction builds one from the key in the form
	service := expense.NewService(store, nil, report.New(), archive)

	factory := func(apiKey string) (scanning.Scanner, error) {
		return scanning.NewGemini(apiKey, *geminiModel)
	}

	basicAuth := web.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := web.NewServer(service, web.VariantSingle, factory, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
