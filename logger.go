package params

// Logger receives diagnostics from the pipeline. The method set matches
// github.com/charmbracelet/log so a *log.Logger can be passed directly.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(any, ...any) {}
func (noopLogger) Warn(any, ...any)  {}
