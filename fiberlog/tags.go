package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Available logging tags
const (
	TagPid      = "pid"
	TagReferer  = "referer"
	TagProtocol = "protocol"
	TagIP       = "ip"
	TagIPs      = "ips"
	TagHost     = "host"
	TagMethod   = "method"
	TagPath     = "path"
	TagURL      = "url"
	TagUA       = "ua"
	TagLatency  = "latency"
	TagStatus   = "status"
	TagQuery    = "queryParams"
	TagBody     = "body"
	TagBytesIn  = "bytesIn"
	TagRoute    = "route"
	TagError    = "error"
	TagResBody  = "resBody"
	RequestID   = "requestId"
)

// data shares request-scoped values between tag functions
type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag resolves one tag value for the current request
type FuncTag func(c *fiber.Ctx, d *data) interface{}

var funcTagMap = map[string]FuncTag{
	TagReferer:  func(c *fiber.Ctx, d *data) interface{} { return c.Get(fiber.HeaderReferer) },
	TagProtocol: func(c *fiber.Ctx, d *data) interface{} { return c.Protocol() },
	TagIP:       func(c *fiber.Ctx, d *data) interface{} { return c.IP() },
	TagHost:     func(c *fiber.Ctx, d *data) interface{} { return c.Hostname() },
	TagMethod:   func(c *fiber.Ctx, d *data) interface{} { return c.Method() },
	TagPath:     func(c *fiber.Ctx, d *data) interface{} { return c.Path() },
	TagURL:      func(c *fiber.Ctx, d *data) interface{} { return c.OriginalURL() },
	TagUA:       func(c *fiber.Ctx, d *data) interface{} { return c.Get(fiber.HeaderUserAgent) },
	TagQuery:    func(c *fiber.Ctx, d *data) interface{} { return c.Request().URI().QueryArgs().String() },
	TagBody:     func(c *fiber.Ctx, d *data) interface{} { return string(c.Body()) },
	TagBytesIn:  func(c *fiber.Ctx, d *data) interface{} { return len(c.Request().Body()) },
	TagRoute:    func(c *fiber.Ctx, d *data) interface{} { return c.Route().Path },
	TagStatus:   func(c *fiber.Ctx, d *data) interface{} { return c.Response().StatusCode() },
	TagLatency:  func(c *fiber.Ctx, d *data) interface{} { return d.end.Sub(d.start).String() },
	TagPid:      func(c *fiber.Ctx, d *data) interface{} { return d.pid },
	TagResBody:  func(c *fiber.Ctx, d *data) interface{} { return string(c.Response().Body()) },
	RequestID:   func(c *fiber.Ctx, d *data) interface{} { return c.GetRespHeader(fiber.HeaderXRequestID) },
	TagError: func(c *fiber.Ctx, d *data) interface{} {
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return string(c.Response().Body())
		}
		return ""
	},
}

func getFuncTagMap(cfg Config, d *data) map[string]FuncTag {
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if fn, ok := funcTagMap[tag]; ok {
			result[tag] = fn
		}
	}
	return result
}
