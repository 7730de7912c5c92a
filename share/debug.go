package share

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger 全局日志实例，各组件通过 WithField 派生自己的 logger
var Logger = newLogger()

var debug bool

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetDebug 设置全局 debug 模式
func SetDebug(on bool) {
	debug = on
	if on {
		Logger.SetLevel(logrus.DebugLevel)
		return
	}
	Logger.SetLevel(logrus.InfoLevel)
}

// IsDebug 是否处于 debug 模式
func IsDebug() bool {
	return debug
}

// Component 返回带组件名的 logger
func Component(name string) logrus.FieldLogger {
	return Logger.WithField("component", name)
}
