// Package cli builds the gitman command-line interface.
//
// The root command parses the toolbelt flags, loads the application
// configuration through Viper, creates the zap logger, and wires the git,
// prompt, browser, and configuration store collaborators into the dispatcher.
package cli
