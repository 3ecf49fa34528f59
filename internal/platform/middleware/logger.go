package middleware

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/internal/platform/reqcontext"
)

// Logger logs one structured line per request: method, route, status,
// duration, and sizes.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			res := c.Response()
			ctx := req.Context()

			requestID := reqcontext.GetRequestID(ctx)
			if requestID == "" {
				requestID = res.Header().Get(echo.HeaderXRequestID)
			}

			fields := map[string]any{
				"request_id":    requestID,
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"status":        res.Status,
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"response_time": time.Since(start).String(),
				"response_size": res.Size,
			}

			log := logger.WithContext(ctx).WithFields(fields)
			if err != nil {
				log.WithError(err).Error("request failed")
			} else {
				log.Info("request handled")
			}

			return err
		}
	}
}
