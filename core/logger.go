package core

// Logger is the application-wide logging contract.
// Implementations may ship errors to an external tracker; the variadic args
// accept errors, context maps and an optional user value for tagging.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
