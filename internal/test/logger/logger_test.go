package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"design-campaign-backend/internal/logger"
)

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestRedactsCredentialKeys(t *testing.T) {
	log, logs := observed()

	log.Info("cfg",
		"sivi_key", "s3cr3t",
		"SiviAPIKey", "s3cr3t",
		"token", "s3cr3t",
		"client_secret", "s3cr3t",
		"Authorization", "Bearer s3cr3t",
		"db_password", "s3cr3t",
		"upstream", "https://api.example.com",
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	for _, k := range []string{"sivi_key", "SiviAPIKey", "token", "client_secret", "Authorization", "db_password"} {
		assert.Equal(t, "[REDACTED]", fields[k], k)
	}
	assert.Equal(t, "https://api.example.com", fields["upstream"])
}

func TestWithRedacts(t *testing.T) {
	log, logs := observed()

	log.With("api-key", "s3cr3t", "component", "relay").Warn("upstream slow")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["api-key"])
	assert.Equal(t, "relay", fields["component"])
}

func TestRedactLeavesCallerArgsUntouched(t *testing.T) {
	log, _ := observed()
	kv := []interface{}{"token", "s3cr3t"}

	log.Error("boom", kv...)
	assert.Equal(t, "s3cr3t", kv[1])
}

func TestLevels(t *testing.T) {
	log, logs := observed()
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	var levels []zapcore.Level
	for _, e := range logs.All() {
		levels = append(levels, e.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}, levels)
}

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		log, err := logger.New(env)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
