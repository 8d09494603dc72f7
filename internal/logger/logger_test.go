package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("login", "username", "ana", "password", "hunter2", "jwt_token", "abc.def.ghi")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "ana", fields["username"])
		assert.Equal(t, "[REDACTED]", fields["password"])
		assert.Equal(t, "[REDACTED]", fields["jwt_token"])
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "api")

	log.Warn("slow request")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "api", entries[0].ContextMap()["component"])
	}
}

func TestOddKeyValuesKeepTrailingKey(t *testing.T) {
	out := redact([]any{"a", 1, "dangling"})
	assert.Equal(t, []any{"a", 1, "dangling"}, out)
}
