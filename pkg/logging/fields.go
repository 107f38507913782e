package logging

import (
	"strings"
	"time"
)

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

// Control-plane helpers

func Switch(id string) Field {
	return String("switch", id)
}

// Link renders a link as "src-dst".
func Link(src, dst string) Field {
	return String("link", src+"-"+dst)
}

func FlowID(id string) Field {
	return String("flow_id", id)
}

func Bandwidth(bw float64) Field {
	return Float64("bandwidth", bw)
}

// Route renders a path as "A>B>C".
func Route(path []string) Field {
	return String("route", strings.Join(path, ">"))
}
