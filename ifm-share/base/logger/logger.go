package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger 初始化全局日志，替换zap的全局logger。
// 未调用前所有打印都是no-op，单测和库代码可以直接使用。
func InitLogger(level, projectName, logPath string, maxAge, rotationTime time.Duration, rotationSize uint32, dsn string) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = zapcore.InfoLevel
		}
	}
	l, err := initZap(lvl, projectName, logPath, maxAge, rotationTime, rotationSize, dsn)
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(l)

	// 将系统输出重定向到zap中，保证所有出现异常均能打印到文件中
	if _, err := zap.RedirectStdLogAt(l, zapcore.ErrorLevel); err != nil {
		panic(err)
	}
}

func Sync() {
	_ = zap.L().Sync()
}

func Debug(args ...interface{}) {
	zap.S().Debug(args...)
}

func Debugf(template string, args ...interface{}) {
	zap.S().Debugf(template, args...)
}

func Info(args ...interface{}) {
	zap.S().Info(args...)
}

func Infof(template string, args ...interface{}) {
	zap.S().Infof(template, args...)
}

func Warn(args ...interface{}) {
	zap.S().Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	zap.S().Warnf(template, args...)
}

func Error(args ...interface{}) {
	zap.S().Error(args...)
}

func Errorf(template string, args ...interface{}) {
	zap.S().Errorf(template, args...)
}
