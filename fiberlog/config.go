package fiberlog

import "github.com/sirupsen/logrus"

// Config selects the logrus logger the middleware writes to and which
// request tags become fields on each access-log entry. A nil Logger
// falls back to the logrus standard logger.
type Config struct {
	Logger *logrus.Logger
	Tags   []string
}

// ConfigDefault logs the request line essentials. The portal wires a
// richer tag set in initializers.InitLogger.
var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
}
