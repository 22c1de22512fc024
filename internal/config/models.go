package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfig is the content of the environment file. Its only job is to name
// the active profile.
type EnvConfig struct {
	Profiles Profiles `yaml:"profiles" toml:"profiles"`
}

// Profiles selects the deployment profile (dev, test, prod, ...).
type Profiles struct {
	Active string `yaml:"active" toml:"active"`
}

// UnmarshalYAML only accepts a string for active; yaml.v3 would otherwise
// turn 123 or true into a profile name.
func (p *Profiles) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Active yaml.Node `yaml:"active"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Active.Kind == 0 {
		return nil
	}
	if raw.Active.Kind != yaml.ScalarNode || raw.Active.ShortTag() != "!!str" {
		return fmt.Errorf("line %d: profiles.active must be a string, got %s", raw.Active.Line, raw.Active.ShortTag())
	}
	p.Active = raw.Active.Value
	return nil
}

// GlobalConfig holds the settings resolved from the active profile file.
type GlobalConfig struct {
	MySQL MySQLConfig `yaml:"mysql" toml:"mysql"`

	// Profile and Source record where the settings came from.
	Profile string `yaml:"-" toml:"-"`
	Source  string `yaml:"-" toml:"-"`

	// Sections keeps every top-level key of the profile file as parsed,
	// including mysql, for settings without a typed field. Integers are int
	// for both YAML and TOML files.
	Sections map[string]any `yaml:"-" toml:"-"`
}

// MySQLConfig describes the database connection.
type MySQLConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	Database string `yaml:"database" toml:"database"`
}

// Redacted returns a copy with the password masked.
func (m MySQLConfig) Redacted() MySQLConfig {
	if m.Password != "" {
		m.Password = "****"
	}
	return m
}

func (m MySQLConfig) String() string {
	r := m.Redacted()
	return fmt.Sprintf("MySQLConfig { host: %q, port: %d, user: %q, password: %q, database: %q }",
		r.Host, r.Port, r.User, r.Password, r.Database)
}

// validate checks the fields the environment file must provide.
func (e *EnvConfig) validate() error {
	return validateProfileName(e.Profiles.Active)
}

// validate checks the fields every profile file must provide.
func (g *GlobalConfig) validate() error {
	if _, ok := g.Sections["mysql"]; !ok {
		return fmt.Errorf("missing section mysql")
	}
	if strings.TrimSpace(g.MySQL.Host) == "" {
		return fmt.Errorf("mysql.host must not be empty")
	}
	if g.MySQL.Port < 1 || g.MySQL.Port > 65535 {
		return fmt.Errorf("mysql.port must be between 1 and 65535, got %d", g.MySQL.Port)
	}
	return nil
}

func validateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("profiles.active must not be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("profiles.active must be a bare profile name, got %q", name)
	}
	return nil
}
