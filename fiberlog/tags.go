package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagLatency   = "latency"
	TagStatus    = "status"
	TagMethod    = "method"
	TagPath      = "path"
	TagRoute     = "route"
	TagIP        = "ip"
	TagResBody   = "resBody"
	TagUserID    = "user_id"
	RequestID    = "request_id"
	maxBodyInLog = 2048
)

// FuncTag - вычисление значения поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	start time.Time
	end   time.Time
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagRoute: func(c *fiber.Ctx, d *data) interface{} {
			if route := c.Route(); route != nil {
				return route.Path
			}
			return ""
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if c.Response().StatusCode() >= fiber.StatusBadRequest {
				return cut(c.Response().Body())
			}
			return ""
		},
		TagUserID: func(c *fiber.Ctx, d *data) interface{} {
			if id, ok := c.Locals(TagUserID).(string); ok {
				return id
			}
			return ""
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
				return id
			}
			return c.Get(fiber.HeaderXRequestID)
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func cut(body []byte) string {
	if len(body) > maxBodyInLog {
		return string(body[:maxBodyInLog]) + "..."
	}
	return string(body)
}
