package badger

import (
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// badgerLogger routes Badger's printf-style logging into zap. Badger is
// chatty at info level, so its info lines are demoted to debug.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

var _ badgerdb.Logger = (*badgerLogger)(nil)

func newBadgerLogger(l *zap.Logger) *badgerLogger {
	return &badgerLogger{sugar: l.Named("badger").Sugar()}
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.sugar.Errorf(format, args...)
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.sugar.Warnf(format, args...)
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.sugar.Debugf(format, args...)
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.sugar.Debugf(format, args...)
}
