package logging

import "time"

// TimedOperation logs a message with the elapsed time when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer begins timing an operation.
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{logger: logger, msg: msg, start: time.Now(), fields: fields}
}

// Elapsed returns the time since the timer started.
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs at Info with the latency and any extra fields.
func (t *TimedOperation) End(extra ...Field) {
	t.logger.Info(t.msg, t.collect(extra)...)
}

// EndWarn logs at Warn, for operations that finished in a degraded way.
func (t *TimedOperation) EndWarn(extra ...Field) {
	t.logger.Warn(t.msg, t.collect(extra)...)
}

// EndError logs at Error with the failure.
func (t *TimedOperation) EndError(err error, extra ...Field) {
	t.logger.Error(t.msg, t.collect(append(extra, Error(err)))...)
}

func (t *TimedOperation) collect(extra []Field) []Field {
	fields := make([]Field, 0, len(t.fields)+len(extra)+1)
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	return append(fields, Latency(t.Elapsed()))
}
