// Package utils holds the CLI plumbing shared by the gitman commands.
//
// ConfigurationLoader merges the embedded defaults, configuration files,
// GITMAN_* environment variables, and flags through Viper. LoggerFactory builds
// zap loggers for the console and structured formats.
package utils
