// Package log provides loggers for audiograph contexts.
package log

import (
	"io/ioutil"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the name of environment variable that enables debug level.
const DebugEnv = "AUDIOGRAPH_DEBUG"

var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Silent returns a logger that discards all entries.
func Silent() *logrus.Logger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}
