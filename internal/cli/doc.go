// Package cli defines the Cobra command tree for the compgen CLI. Each file
// registers one command with the root command, which itself runs the
// generator. Commands delegate to internal packages for the work and only
// handle flags, settings resolution, and output formatting.
package cli
