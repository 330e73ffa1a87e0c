package core

// Logger is the logging surface the renderer and loaders accept.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}
