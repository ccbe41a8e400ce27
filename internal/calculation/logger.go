package calculation

import "fmt"

// Logger is the logging interface used by the engine and the Monte Carlo
// runner. Implementations must be safe for concurrent use; the default is a
// no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// prefixLogger tags every message with a component name.
type prefixLogger struct {
	prefix string
	next   Logger
}

// WithPrefix returns a Logger that prepends "prefix: " to every message.
func WithPrefix(l Logger, prefix string) Logger {
	if l == nil {
		return NopLogger{}
	}
	if _, ok := l.(NopLogger); ok {
		return l
	}
	return prefixLogger{prefix: prefix, next: l}
}

func (p prefixLogger) tag(format string, args []any) string {
	return p.prefix + ": " + fmt.Sprintf(format, args...)
}

func (p prefixLogger) Debugf(format string, args ...any) { p.next.Debugf("%s", p.tag(format, args)) }
func (p prefixLogger) Infof(format string, args ...any)  { p.next.Infof("%s", p.tag(format, args)) }
func (p prefixLogger) Warnf(format string, args ...any)  { p.next.Warnf("%s", p.tag(format, args)) }
func (p prefixLogger) Errorf(format string, args ...any) { p.next.Errorf("%s", p.tag(format, args)) }
