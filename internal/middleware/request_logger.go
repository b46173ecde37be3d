package middleware

import (
	"time"

	"mailgun-mock/internal/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request once the response status is known
func RequestLogger(appLogger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			appLogger.Infof("%s %s %d %dB %s", req.Method, req.URL.Path, res.Status, res.Size, time.Since(start))
			return nil
		}
	}
}
