package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("anything"))
}

func TestUse_RoutesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Use(zap.New(core))
	t.Cleanup(func() { SetFormat("console") })

	Infof("transition %s -> %s", "SOLICITUD", "ENTREVISTA")
	Debugf("hidden")
	Warnf("notification failed: %v", "timeout")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "transition SOLICITUD -> ENTREVISTA", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
