package jvmbind

import "github.com/jvmbind/jvmbind-go/pkg/jvmbind/logging"

// Config carries the process-wide marshaling policy. It is threaded
// explicitly into the components that consult it; nothing in the package
// reads configuration from globals.
type Config struct {
	// AllowWidening opts in to widening conversions for unsigned native
	// integer types, mapping each to the next wider signed runtime type
	// (uint8 to short, uint16 to int, uint32 to long). Disabled by default
	// because silent widening hides sign and precision bugs at the boundary;
	// narrowing is rejected unconditionally.
	AllowWidening bool

	// Logger receives diagnostics from registry installation and lifecycle
	// events. Nil means quiet.
	Logger logging.Logger
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}
