// Package cli constructs the gitcreator command-line interface. It wires the
// Cobra command hierarchy to the Viper configuration loader, the zap logger
// and a GitHub client whose credential is resolved per command.
package cli
