package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/okian/roundup/pkg/metrics"
)

// MetricsMiddleware records request counts and durations per endpoint.
func MetricsMiddleware(endpoint string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			durationMS := float64(time.Since(start).Microseconds()) / 1000

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			metrics.RecordHTTPRequest(endpoint, c.Request().Method, strconv.Itoa(status), durationMS)
			return err
		}
	}
}
