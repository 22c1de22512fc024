// Package source provides read-only access to the directory holding the
// environment and profile files. DirSource reads from disk; MemorySource
// serves in-memory files and counts read attempts.
package source
