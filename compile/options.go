package compile

import "github.com/sirupsen/logrus"

// Options configures the compilation process, mirroring the teacher's
// CompileOptions/DefaultOptions shape.
type Options struct {
	ValidateGraph bool // Check self-connection/gating invariants before compiling
	Verbose       bool // Log slot allocation and emitted kernel sizes at debug level

	Logger *logrus.Logger
}

// DefaultOptions returns sensible compilation defaults.
func DefaultOptions() Options {
	return Options{
		ValidateGraph: true,
		Verbose:       false,
		Logger:        logrus.StandardLogger(),
	}
}

func (o Options) logger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}
