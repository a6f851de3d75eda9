package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler_Captures(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.Info("Line plot written", slog.String("path", "line_plot.png"))
	logger.Error("render failed", slog.Int("code", 1))

	records := handler.GetRecords()
	require.Len(t, records, 2)
	assert.Equal(t, "Line plot written", records[0].Message)
	assert.Equal(t, int64(1), records[1].Attrs["code"])
	assert.True(t, handler.ContainsAttr("path", "line_plot.png"))
	assert.False(t, handler.ContainsAttr("path", "bar_plot.png"))
}

func TestBufferedSlogHandler_ByLevel(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg")

	assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
	assert.Len(t, handler.GetRecordsByLevel(slog.LevelDebug), 1)
	assert.Empty(t, handler.GetRecordsByLevel(slog.LevelError))
	AssertLogContains(t, handler, slog.LevelWarn, "warn")
	AssertNoErrors(t, handler)
}

func TestBufferedSlogHandler_DerivedLoggersShareStore(t *testing.T) {
	logger, handler := NewTestLogger(t)

	cleaner := logger.With(slog.String("component", "cleaner"))
	cleaner.Info("Outliers removed")
	logger.Info("Pipeline run completed")

	records := handler.GetRecords()
	require.Len(t, records, 2)
	assert.Equal(t, "cleaner", records[0].Attrs["component"])
	assert.NotContains(t, records[1].Attrs, "component")
}

func TestBufferedSlogHandler_Concurrent(t *testing.T) {
	logger, handler := NewTestLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("Step completed", slog.Int("worker", n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, handler.GetRecords(), 10)
}
