package application

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/confload/internal/config"
	"github.com/eugenenazirov/confload/internal/source"
)

// Output formats accepted by Options.Format.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Options holds the command-line settings of the tool.
type Options struct {
	Dir       string
	Prefix    string
	Extension string
	Strict    bool
	Format    string
	Stdout    io.Writer
}

// App renders the process-wide configuration.
type App struct {
	resolve func() (*config.GlobalConfig, error)
	logger  *zap.Logger
	out     io.Writer
	format  string
}

// New builds the loader described by opts and installs it as the loader of
// the process-wide configuration. It must run before anything reads
// config.Global.
func New(opts Options, logger *zap.Logger) (*App, error) {
	loader, err := BuildLoader(opts, logger)
	if err != nil {
		return nil, err
	}
	if err := config.Configure(loader); err != nil {
		return nil, fmt.Errorf("install configuration loader: %w", err)
	}
	return newApp(opts, logger, config.Global)
}

// BuildLoader creates a loader reading opts.Dir with the given file naming.
func BuildLoader(opts Options, logger *zap.Logger) (*config.Loader, error) {
	opts = withDefaults(opts)

	loader, err := config.NewLoader(source.NewDirSource(opts.Dir),
		config.WithPrefix(opts.Prefix),
		config.WithExtension(opts.Extension),
		config.WithStrict(opts.Strict),
		config.WithLogger(logger),
		config.WithReport(opts.Stdout),
	)
	if err != nil {
		return nil, fmt.Errorf("build configuration loader: %w", err)
	}
	return loader, nil
}

func newApp(opts Options, logger *zap.Logger, resolve func() (*config.GlobalConfig, error)) (*App, error) {
	opts = withDefaults(opts)

	switch opts.Format {
	case FormatText, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}

	return &App{
		resolve: resolve,
		logger:  logger,
		out:     opts.Stdout,
		format:  opts.Format,
	}, nil
}

// Report resolves the configuration and prints the database settings.
func (a *App) Report() error {
	cfg, err := a.resolve()
	if err != nil {
		return err
	}

	a.logger.Info("configuration ready",
		zap.String("profile", cfg.Profile),
		zap.String("source", cfg.Source),
	)
	return Render(a.out, cfg, a.format)
}

type report struct {
	Profile string             `yaml:"profile"`
	Source  string             `yaml:"source"`
	MySQL   config.MySQLConfig `yaml:"mysql"`
}

// Render writes the database settings of cfg with the password masked.
func Render(w io.Writer, cfg *config.GlobalConfig, format string) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintf(w, "profile: %s\nsource: %s\n%s\n", cfg.Profile, cfg.Source, cfg.MySQL)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report{
			Profile: cfg.Profile,
			Source:  cfg.Source,
			MySQL:   cfg.MySQL.Redacted(),
		}); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func withDefaults(opts Options) Options {
	if opts.Dir == "" {
		opts.Dir = config.DefaultDir
	}
	if opts.Prefix == "" {
		opts.Prefix = config.DefaultPrefix
	}
	if opts.Extension == "" {
		opts.Extension = config.DefaultExtension
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return opts
}
