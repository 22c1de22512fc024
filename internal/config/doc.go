// Package config resolves the application configuration in two stages. The
// environment file (resources/application.yml by default) names the active
// profile under profiles.active; the profile file
// (resources/application-<profile>.yml) is then parsed into a GlobalConfig.
//
// Missing or unreadable files and content of the wrong shape are fatal.
// Content that is not structured data at all is reported and yields no
// configuration, unless the loader is strict. The package-level holder loads
// once, on first access, and serves the same GlobalConfig afterwards.
package config
