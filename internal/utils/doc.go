// Package utils exposes reusable helpers consumed by the multigh commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// environment variables through Viper; LoggerFactory builds zap loggers that
// never write to standard output.
package utils
