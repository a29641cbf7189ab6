package kizuna

import "log/slog"

var logger = slog.Default()

// SetLogger replaces the logger used to report absorbed bind/unbind and
// destroy failures. Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

// Logger returns the logger currently used by the package.
func Logger() *slog.Logger {
	return logger
}
