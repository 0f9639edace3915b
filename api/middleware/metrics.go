package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vespernexus_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			requestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
