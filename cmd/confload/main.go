package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/confload/internal/application"
	"github.com/eugenenazirov/confload/internal/config"
	"github.com/eugenenazirov/confload/internal/logging"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

// version can be set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	kingpinApp := kingpin.New("confload", "Resolves the active profile and prints its database settings")
	kingpinApp.Version(version)
	kingpinApp.UsageWriter(stderr)
	kingpinApp.ErrorWriter(stderr)

	dir := kingpinApp.Flag("resources", "Directory holding the environment and profile files").Default(config.DefaultDir).String()
	prefix := kingpinApp.Flag("prefix", "Base name of the environment and profile files").Default(config.DefaultPrefix).String()
	ext := kingpinApp.Flag("ext", "Configuration file extension").Default(config.DefaultExtension).Enum(config.Extensions()...)
	strict := kingpinApp.Flag("strict", "Treat malformed configuration syntax as fatal").Bool()
	format := kingpinApp.Flag("format", "Output format").Default(application.FormatText).Enum(application.FormatText, application.FormatYAML)
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").Default("info").String()

	if _, err := kingpinApp.Parse(args); err != nil {
		fmt.Fprintf(stderr, "confload: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(stderr, *logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "confload: failed to initialize logger: %v\n", err)
		return exitUsage
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(application.Options{
		Dir:       *dir,
		Prefix:    *prefix,
		Extension: *ext,
		Strict:    *strict,
		Format:    *format,
		Stdout:    stdout,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return exitFatal
	}

	if err := app.Report(); err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		return exitFatal
	}

	return exitOK
}
