package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketQRPayloadRoundTrip(t *testing.T) {
	payload := TicketQRPayload("Jazz Night", "TKT-1A2B3C4D", "buyer@example.com")
	assert.Equal(t, "EVENT: Jazz Night\nTICKET: TKT-1A2B3C4D\nUSER: buyer@example.com", payload)

	eventTitle, ticketID, userEmail, err := ParseTicketQRPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", eventTitle)
	assert.Equal(t, "TKT-1A2B3C4D", ticketID)
	assert.Equal(t, "buyer@example.com", userEmail)
}

func TestParseTicketQRPayloadRejectsMalformed(t *testing.T) {
	for _, payload := range []string{
		"",
		"EVENT: Jazz Night",
		"EVENT: a\nTICKET: b\nUSER: c\nEXTRA: d",
		"TITLE: a\nTICKET: b\nUSER: c",
	} {
		_, _, _, err := ParseTicketQRPayload(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestGenerateTicketQRProducesPNG(t *testing.T) {
	data, err := GenerateTicketQR("Jazz Night", "TKT-1A2B3C4D", "buyer@example.com")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}

func TestNewExternalTicketIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newExternalTicketID()
		assert.Regexp(t, `^TKT-[0-9A-F]{8}$`, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
