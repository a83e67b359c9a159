// Package log is the logging contract of the taskboard SDK.
//
// [lib.Config] takes any [Logger]; without one the SDK stays silent ([Noop]).
// Adapters only need the format methods to do something useful, the value
// methods can return the same logger:
//
//	type stdLogger struct{ log.Logger }
//
//	func (stdLogger) Warningf(format string, args ...any) { stdlog.Printf("WARN "+format, args...) }
package log

import internallog "github.com/slok/taskboard/internal/log"

// Logger is implemented by loggers passed to the SDK. Board, storage and
// service components tag their messages with a `svc` value.
type Logger = internallog.Logger

// Kv are the structured values attached with WithValues.
type Kv = internallog.Kv

// Noop discards every message.
var Noop = internallog.Noop
