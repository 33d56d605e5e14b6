package middleware

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestID tags every request with a UUID in X-Request-Id, keeping one the
// caller already sent.
func RequestID() echo.MiddlewareFunc {
	return echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// recoveredPanic carries the stack of a recovered panic up to the request
// logger.
type recoveredPanic struct {
	err   error
	stack []byte
}

func (p *recoveredPanic) Error() string { return p.err.Error() }
func (p *recoveredPanic) Unwrap() error { return p.err }

// Recover turns panics into errors returned to the outer middleware. It must
// sit inside RequestLogger, which logs the error with its stack.
func Recover() echo.MiddlewareFunc {
	return echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(_ echo.Context, err error, stack []byte) error {
			return &recoveredPanic{err: err, stack: stack}
		},
	})
}

// RequestLogger writes the single log entry of a request. It renders errors
// through the HTTP error handler first so the logged status is the one the
// client got. Server errors log at error level, client errors at warn, the
// rest at info.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error()
			case v.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
				var p *recoveredPanic
				if errors.As(v.Error, &p) {
					ev = ev.Bytes("stack", p.stack)
				}
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
