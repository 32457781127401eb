// Package logger provides a structured logging interface for the Twitch API client.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output
// - File output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "twitchapi/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	log := logger.GetLogger()
//	log.Info("client started")
//	log.WithField("login", "somestreamer").Info("fetching streams")
//
// For tests, NewTestLogger returns an implementation that captures all
// messages in memory for assertions.
package logger
