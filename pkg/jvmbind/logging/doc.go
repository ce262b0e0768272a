// Package logging provides a minimal logging facade for the bridge.
//
// This package defines a Logger interface that wraps a subset of the standard
// library's log/slog functionality. The interface is intentionally small to
// allow applications to provide custom implementations for testing or for
// integration with existing logging systems.
//
// The default implementation is slog-backed:
//
//	import (
//	    "log/slog"
//	    "github.com/jvmbind/jvmbind-go/pkg/jvmbind/logging"
//	)
//
//	// Use the default logger (slog.Default())
//	logger := logging.New(nil)
//
//	// Use a custom slog.Logger
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	logger = logging.New(slog.New(handler))
//
// Loggers are threaded through Config values rather than read from globals,
// so a process embedding several runtimes can route their diagnostics
// independently.
package logging
