// Package application wires the command-line options into a configuration
// loader, installs it as the process-wide loader and renders the resolved
// database settings. It keeps the main package focused on flag parsing and
// exit codes.
package application
