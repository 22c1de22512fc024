package config

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/eugenenazirov/confload/internal/source"
)

const (
	// DefaultDir is the directory holding the environment and profile files.
	DefaultDir = "resources"
	// DefaultPrefix is the base name shared by the environment and profile files.
	DefaultPrefix = "application"
	// DefaultExtension selects the file format.
	DefaultExtension = "yml"
)

// Option configures a Loader.
type Option func(*Loader)

// WithPrefix overrides the base file name (default "application").
func WithPrefix(prefix string) Option {
	return func(l *Loader) {
		l.prefix = prefix
	}
}

// WithExtension overrides the file extension and thereby the format.
func WithExtension(ext string) Option {
	return func(l *Loader) {
		l.ext = ext
	}
}

// WithStrict makes malformed syntax fatal instead of a soft miss.
func WithStrict(strict bool) Option {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithReport sets where soft-miss diagnostics are printed (default stdout).
func WithReport(w io.Writer) Option {
	return func(l *Loader) {
		if w != nil {
			l.report = w
		}
	}
}

// Loader resolves the active profile and parses its settings. It holds no
// state between calls; every Load reads both files again.
type Loader struct {
	src    source.Source
	prefix string
	ext    string
	codec  codec
	strict bool
	logger *zap.Logger
	report io.Writer
}

// NewLoader creates a loader reading from src.
func NewLoader(src source.Source, opts ...Option) (*Loader, error) {
	if src == nil {
		return nil, fmt.Errorf("source must not be nil")
	}

	l := &Loader{
		src:    src,
		prefix: DefaultPrefix,
		ext:    DefaultExtension,
		logger: zap.NewNop(),
		report: os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.prefix == "" {
		return nil, fmt.Errorf("file prefix must not be empty")
	}
	c, err := codecFor(l.ext)
	if err != nil {
		return nil, err
	}
	l.codec = c

	return l, nil
}

// DefaultLoader reads resources/application.yml and its profile siblings.
func DefaultLoader() *Loader {
	l, err := NewLoader(source.NewDirSource(DefaultDir))
	if err != nil {
		panic(fmt.Sprintf("default loader: %v", err))
	}
	return l
}

// EnvFile returns the name of the environment file, e.g. "application.yml".
func (l *Loader) EnvFile() string {
	return fmt.Sprintf("%s.%s", l.prefix, l.ext)
}

// ProfileFile returns the name of the file for profile, e.g. "application-dev.yml".
func (l *Loader) ProfileFile(profile string) string {
	return fmt.Sprintf("%s-%s.%s", l.prefix, profile, l.ext)
}

// Load reads the environment file, then the profile file it names.
// It returns (nil, nil) when the environment file is not structured data and
// the loader is not strict; the profile file is not read in that case.
func (l *Loader) Load() (*GlobalConfig, error) {
	l.logger.Info("load profile", zap.String("env_file", l.src.Path(l.EnvFile())))

	env, err := l.LoadEnv()
	if err != nil || env == nil {
		return nil, err
	}
	return l.LoadProfile(env.Profiles.Active)
}

// LoadEnv parses the environment file. See Load for the (nil, nil) case.
func (l *Loader) LoadEnv() (*EnvConfig, error) {
	var env EnvConfig
	path := l.src.Path(l.EnvFile())

	_, ok, err := l.decodeFile(l.EnvFile(), "EnvConfig", &env)
	if err != nil || !ok {
		return nil, err
	}

	if err := env.validate(); err != nil {
		return nil, &Error{Kind: KindShape, Path: path, Target: "EnvConfig", Err: err}
	}

	l.logger.Debug("environment resolved",
		zap.String("path", path),
		zap.String("profile", env.Profiles.Active),
	)
	return &env, nil
}

// LoadProfile parses the file of the named profile into a GlobalConfig.
// See Load for the (nil, nil) case.
func (l *Loader) LoadProfile(profile string) (*GlobalConfig, error) {
	if err := validateProfileName(profile); err != nil {
		return nil, &Error{Kind: KindShape, Path: l.src.Path(l.EnvFile()), Target: "EnvConfig", Err: err}
	}

	var cfg GlobalConfig
	name := l.ProfileFile(profile)
	path := l.src.Path(name)

	tree, ok, err := l.decodeFile(name, "GlobalConfig", &cfg)
	if err != nil || !ok {
		return nil, err
	}

	cfg.Profile = profile
	cfg.Source = path
	cfg.Sections = tree
	if err := cfg.validate(); err != nil {
		return nil, &Error{Kind: KindShape, Path: path, Target: "GlobalConfig", Err: err}
	}

	l.logger.Debug("profile resolved",
		zap.String("path", path),
		zap.String("profile", profile),
	)
	return &cfg, nil
}

// decodeFile reads and decodes name into target. ok is false on a soft miss.
func (l *Loader) decodeFile(name, targetName string, target any) (map[string]any, bool, error) {
	path := l.src.Path(name)

	data, err := l.src.ReadFile(name)
	if err != nil {
		return nil, false, &Error{Kind: KindRead, Path: path, Err: err}
	}

	tree, kind, err := l.codec.decode(data, target)
	if err != nil {
		cfgErr := &Error{Kind: kind, Path: path, Target: targetName, Err: err}
		if kind == KindSyntax && !l.strict {
			fmt.Fprintln(l.report, cfgErr)
			l.logger.Warn("configuration file skipped", zap.String("path", path), zap.Error(err))
			return nil, false, nil
		}
		return nil, false, cfgErr
	}

	return tree, true, nil
}
