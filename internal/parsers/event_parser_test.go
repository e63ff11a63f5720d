package parsers_test

import (
	"testing"
	"time"

	"rpc-sentinel/internal/parsers"
	"rpc-sentinel/internal/shared/iphash"
	"rpc-sentinel/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidLine(t *testing.T) {
	t.Parallel()

	parser := parsers.NewEventParser("salt-a")

	line := []byte(`{"time":"2026-08-30T12:00:00Z","ip":"203.0.113.7","method":"getBalance","lat_ms":42.5,"status":200}`)
	event, err := parser.Parse(line)

	require.NoError(t, err)
	assert.Equal(t, "getBalance", event.Method)
	assert.Equal(t, 42.5, event.LatencyMS)
	assert.Equal(t, 200, event.StatusCode)
	assert.False(t, event.IsError())
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), event.Time)
	assert.Equal(t, iphash.Hash("203.0.113.7", "salt-a"), event.SourceID)
}

func TestParse_ServerErrorStatus(t *testing.T) {
	t.Parallel()

	parser := parsers.NewEventParser("salt-a")

	event, err := parser.Parse([]byte(`{"method":"getLogs","lat_ms":10,"status":503}`))

	require.NoError(t, err)
	assert.True(t, event.IsError())
}

func TestParse_DefaultsWhenFieldsAbsent(t *testing.T) {
	t.Parallel()

	parser := parsers.NewEventParser("salt-a")

	event, err := parser.Parse([]byte(`{"method":"getBlock"}`))

	require.NoError(t, err)
	assert.Equal(t, 0.0, event.LatencyMS)
	assert.Equal(t, 200, event.StatusCode)
	assert.Empty(t, event.SourceID, "absent ip must not produce a hashed sample")
	assert.WithinDuration(t, time.Now().UTC(), event.Time, 5*time.Second)
}

func TestParse_MalformedJSON(t *testing.T) {
	t.Parallel()

	parser := parsers.NewEventParser("salt-a")

	event, err := parser.Parse([]byte(`{not json`))

	require.Error(t, err)
	assert.Nil(t, event)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "PRS_1000", svcErr.Code)
}

func TestParse_MissingMethod(t *testing.T) {
	t.Parallel()

	parser := parsers.NewEventParser("salt-a")

	_, err := parser.Parse([]byte(`{"ip":"203.0.113.7","lat_ms":10}`))

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "PRS_1001", svcErr.Code)
}

func TestParse_NegativeLatency(t *testing.T) {
	t.Parallel()

	parser := parsers.NewEventParser("salt-a")

	_, err := parser.Parse([]byte(`{"method":"getBlock","lat_ms":-1}`))

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "PRS_1002", svcErr.Code)
}
