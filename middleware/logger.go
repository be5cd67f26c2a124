package middleware

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dzonerzy/go-cmdtree/internal/pool"
)

// requestInfoPool recycles RequestInfo records between handler executions
var requestInfoPool = pool.NewPoolWithReset(
	func() *RequestInfo {
		return &RequestInfo{
			Metadata: make(map[string]any, 4),
		}
	},
	func(info *RequestInfo) {
		info.Command = ""
		info.Args = info.Args[:0]
		info.Flags = info.Flags[:0]
		info.StartTime = time.Time{}
		info.Duration = 0
		info.Error = nil
		clear(info.Metadata)
	},
)

// Logger creates a middleware that logs every handler execution to the
// configured output.
func Logger(options ...MiddlewareOption) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return LoggerWithWriter(getLogWriter(config.LogOutput), options...)
}

// LoggerWithWriter creates a logger middleware that writes to a specific writer
func LoggerWithWriter(writer io.Writer, options ...MiddlewareOption) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			if config.LogLevel == LogLevelNone || writer == nil {
				return next(ctx)
			}

			info := requestInfoPool.Get()
			defer requestInfoPool.Put(info)

			info.Command = getCommandName(ctx)
			info.Args = append(info.Args, ctx.Args()...)
			info.Flags = append(info.Flags, ctx.Flags()...)
			info.StartTime = time.Now()

			logRequest(writer, config, info, "START")

			err := next(ctx)

			info.Duration = time.Since(info.StartTime)
			info.Error = err

			logRequest(writer, config, info, getLogLevel(err))

			return err
		}
	}
}

// getLogLevel determines log level based on error status
func getLogLevel(err error) string {
	if err != nil {
		return "ERROR"
	}
	return "SUCCESS"
}

func logRequest(writer io.Writer, config *MiddlewareConfig, info *RequestInfo, level string) {
	if !shouldLog(config.LogLevel, level) {
		return
	}

	switch config.LogFormat { // exhaustive over LogFormat
	case LogFormatJSON:
		writeJSONLog(writer, info, level, config)
	case LogFormatText:
		writeTextLog(writer, info, level, config)
	default:
		writeTextLog(writer, info, level, config)
	}
}

// shouldLog determines if the log level warrants logging
func shouldLog(configLevel LogLevel, messageLevel string) bool {
	switch messageLevel {
	case "ERROR":
		return configLevel >= LogLevelError
	case "SUCCESS":
		return configLevel >= LogLevelInfo
	case "START":
		return configLevel >= LogLevelDebug
	default:
		return configLevel >= LogLevelInfo
	}
}

// getLogWriter returns the appropriate writer based on configuration
func getLogWriter(output LogOutput) io.Writer {
	switch output {
	case LogOutputStdout:
		return os.Stdout
	case LogOutputStderr:
		return os.Stderr
	case LogOutputNone:
		return nil
	default:
		return os.Stderr
	}
}

// writeTextLog writes a human-readable text log entry
func writeTextLog(writer io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)

	*buf = append(*buf, '[')
	*buf = info.StartTime.AppendFormat(*buf, "2006-01-02 15:04:05")
	*buf = append(*buf, "] "...)
	*buf = append(*buf, level...)
	*buf = append(*buf, " command="...)
	*buf = append(*buf, info.Command...)

	if info.Duration > 0 {
		*buf = append(*buf, " duration="...)
		*buf = append(*buf, info.Duration.String()...)
	}

	if config.IncludeFlags && len(info.Flags) > 0 {
		*buf = append(*buf, " flags="...)
		*buf = appendJoined(*buf, info.Flags, ',')
	}

	if config.IncludeArgs && len(info.Args) > 0 {
		*buf = append(*buf, " args="...)
		*buf = appendJoined(*buf, info.Args, ' ')
	}

	if info.Error != nil {
		*buf = append(*buf, " error="...)
		*buf = strconv.AppendQuote(*buf, info.Error.Error())
	}

	*buf = append(*buf, '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	writer.Write(*buf)
}

// writeJSONLog writes one JSON object per line
func writeJSONLog(writer io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)

	*buf = append(*buf, `{"timestamp":"`...)
	*buf = info.StartTime.AppendFormat(*buf, time.RFC3339)
	*buf = append(*buf, `","level":"`...)
	*buf = append(*buf, level...)
	*buf = append(*buf, `","command":`...)
	*buf = appendJSON(*buf, info.Command)

	if info.Duration > 0 {
		*buf = append(*buf, `,"duration_ms":`...)
		*buf = strconv.AppendInt(*buf, info.Duration.Milliseconds(), 10)
	}

	if config.IncludeFlags && len(info.Flags) > 0 {
		*buf = append(*buf, `,"flags":`...)
		*buf = appendJSON(*buf, info.Flags)
	}

	if config.IncludeArgs && len(info.Args) > 0 {
		*buf = append(*buf, `,"args":`...)
		*buf = appendJSON(*buf, info.Args)
	}

	if info.Error != nil {
		*buf = append(*buf, `,"error":`...)
		*buf = appendJSON(*buf, info.Error.Error())
	}

	if len(info.Metadata) > 0 {
		*buf = append(*buf, `,"metadata":`...)
		*buf = appendJSON(*buf, info.Metadata)
	}

	*buf = append(*buf, '}', '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	writer.Write(*buf)
}

func appendJoined(buf []byte, items []string, sep byte) []byte {
	for i, item := range items {
		if i > 0 {
			buf = append(buf, sep)
		}
		buf = append(buf, item...)
	}
	return buf
}

func appendJSON(buf []byte, v any) []byte {
	enc, err := json.Marshal(v)
	if err != nil {
		return append(buf, "null"...)
	}
	return append(buf, enc...)
}

// Convenience constructors for common logging scenarios

// DebugLogger creates a logger with debug level (logs everything)
func DebugLogger() Middleware {
	return Logger(WithLogLevel(LogLevelDebug))
}

// ErrorLogger creates a logger with error level (logs only errors)
func ErrorLogger() Middleware {
	return Logger(WithLogLevel(LogLevelError))
}

// JSONLogger creates a logger that outputs JSON format
func JSONLogger() Middleware {
	return Logger(WithLogFormat(LogFormatJSON))
}
