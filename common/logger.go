package common

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/absolute8511/glog"
)

type Logger interface {
	Output(maxdepth int, s string) error
	OutputErr(maxdepth int, s string) error
	OutputWarning(maxdepth int, s string) error
}

type defaultLogger struct {
	logger *log.Logger
}

func header(lvl, msg string) string {
	return fmt.Sprintf("%s: %s", lvl, msg)
}

func NewDefaultLogger(module string) *defaultLogger {
	return &defaultLogger{
		logger: log.New(os.Stdout, module, log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
	}
}

func (l *defaultLogger) Output(maxdepth int, s string) error {
	l.logger.Output(maxdepth+1, s)
	return nil
}

func (l *defaultLogger) OutputErr(maxdepth int, s string) error {
	l.logger.Output(maxdepth+1, header("ERR", s))
	return nil
}

func (l *defaultLogger) OutputWarning(maxdepth int, s string) error {
	l.logger.Output(maxdepth+1, header("WARN", s))
	return nil
}

type GLogger struct {
}

func (l *GLogger) Output(maxdepth int, s string) error {
	glog.InfoDepth(maxdepth, s)
	return nil
}

func (l *GLogger) OutputErr(maxdepth int, s string) error {
	glog.ErrorDepth(maxdepth, s)
	return nil
}

func (l *GLogger) OutputWarning(maxdepth int, s string) error {
	glog.WarningDepth(maxdepth, s)
	return nil
}

const (
	LOG_ERR int32 = iota
	LOG_WARN
	LOG_INFO
	LOG_DEBUG
)

type LevelLogger struct {
	Logger Logger
	level  int32
}

func NewLevelLogger(level int32, l Logger) *LevelLogger {
	return &LevelLogger{
		Logger: l,
		level:  level,
	}
}

func (l *LevelLogger) SetLevel(lvl int32) {
	atomic.StoreInt32(&l.level, lvl)
}

func (l *LevelLogger) Level() int32 {
	return atomic.LoadInt32(&l.level)
}

func (l *LevelLogger) Infof(f string, args ...interface{}) {
	if l.Logger != nil && l.Level() >= LOG_INFO {
		l.Logger.Output(2, fmt.Sprintf(f, args...))
	}
}

func (l *LevelLogger) Debugf(f string, args ...interface{}) {
	if l.Logger != nil && l.Level() >= LOG_DEBUG {
		l.Logger.Output(2, fmt.Sprintf(f, args...))
	}
}

func (l *LevelLogger) Errorf(f string, args ...interface{}) {
	if l.Logger != nil {
		l.Logger.OutputErr(2, fmt.Sprintf(f, args...))
	}
}

func (l *LevelLogger) Warningf(f string, args ...interface{}) {
	if l.Logger != nil && l.Level() >= LOG_WARN {
		l.Logger.OutputWarning(2, fmt.Sprintf(f, args...))
	}
}
