package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsistency_CampoYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Service: "warehouse-api", Output: &buf}).Component("ledger")

	l.Info().Msg("no debe salir")
	l.Consistency(ConsistencyLedgerAuditMissing).Str("item_id", "i1").Msg("stock sin auditoría")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, ConsistencyLedgerAuditMissing, line["consistency"])
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "warehouse-api", line["service"])
	assert.Equal(t, "i1", line["item_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel(" DEBUG ").String())
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("verbose").String())
}
