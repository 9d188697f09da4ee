package nats

import (
	"encoding/json"
	"testing"
	"time"

	"cubie-assistant/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "assistant.events.EMAIL_SENT", Subject(events.TypeEmailSent))
}

func TestDecode_RoundTripsEnvelope(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := json.Marshal(envelope{ID: "e1", Type: events.TypeHelpIndexRebuilt, OccurredAt: at, Data: map[string]interface{}{"chunks": 3}})
	require.NoError(t, err)

	event, err := decode(raw)
	require.NoError(t, err)
	assert.Equal(t, events.TypeHelpIndexRebuilt, event.EventType())
	assert.Equal(t, at, event.Timestamp())
	assert.EqualValues(t, 3, event.Payload()["chunks"])
}

func TestDecode_RejectsUntyped(t *testing.T) {
	_, err := decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = decode([]byte(`not json`))
	assert.Error(t, err)
}
