package middleware

import (
	"expense-approval-backend/lib/utils/metrics"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func Metrics() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		metrics.HttpRequestsInFlight.Inc()
		defer metrics.HttpRequestsInFlight.Dec()

		err := ctx.Next()

		// шаблон маршрута вместо реального пути, чтобы не плодить метки по id
		path := ctx.Path()
		if route := ctx.Route(); route != nil && route.Path != "" {
			path = route.Path
		}
		status := ctx.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		metrics.HttpRequestsTotal.WithLabelValues(ctx.Method(), path, strconv.Itoa(status)).Inc()
		metrics.HttpRequestDuration.WithLabelValues(ctx.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
