// Package config loads service configuration from config.yml, .env files,
// and environment variables, in that order of increasing precedence.
package config
