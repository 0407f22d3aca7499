package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func query() (string, int64) { return "SELECT * FROM questions", 3 }

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(zerolog.New(&buf), gormlogger.Warn, 100*time.Millisecond)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now(), query, nil)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now(), query, errors.New("relation does not exist"))
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "SELECT * FROM questions")
	buf.Reset()

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "slow query")
}

func TestGormLoggerLogMode(t *testing.T) {
	var buf bytes.Buffer
	base := NewGormLogger(zerolog.New(&buf), gormlogger.Warn, 0)

	silent := base.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), query, errors.New("boom"))
	silent.Warn(context.Background(), "ignored %d", 1)
	assert.Empty(t, buf.String())

	base.Info(context.Background(), "dropped at warn level")
	assert.Empty(t, buf.String())
	base.Warn(context.Background(), "kept %s", "warning")
	assert.Contains(t, buf.String(), "kept warning")
}
