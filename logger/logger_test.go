package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	defer Set(nil)

	require.NoError(t, Init("production"))
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("development"))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))
}

func TestSetAndHelpers(t *testing.T) {
	defer Set(nil)

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	Debug("debug", zap.Int("n", 1))
	Info("info")
	Warn("warn")
	Error("error", zap.String("stage", "refit-final"))

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "refit-final", entries[3].ContextMap()["stage"])
}

func TestGetFallback(t *testing.T) {
	Set(nil)
	assert.NotNil(t, Get())
	Set(nil)
	assert.NoError(t, Sync())
}

func TestGetFallbackConcurrent(t *testing.T) {
	Set(nil)
	defer Set(nil)

	const n = 16
	got := make([]*zap.Logger, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Get()
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}
	assert.Same(t, got[0], Get())
}
