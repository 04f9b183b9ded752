// Package logger provides structured logging for pushkit built on zerolog.
//
// A process-wide global logger backs the package-level functions; call
// Init once at startup to configure it. Components derive tagged loggers
// via WithComponent.
package logger
