package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyIntent(t *testing.T) {
	tests := []struct {
		text string
		want Reply
	}{
		{"yes", ReplyConfirm},
		{"Yes, send it!", ReplyConfirm},
		{"go ahead", ReplyConfirm},
		{"ok do it", ReplyConfirm},
		{"don't send", ReplyReject},
		{"no thanks", ReplyReject},
		{"cancel", ReplyReject},
		{"yes, and also show FedEx", ReplyNone},
		{"", ReplyNone},
		{"thanks", ReplyNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReplyIntent(tt.text), tt.text)
	}
}

func TestExtractSignals_ReopenIsNotOpen(t *testing.T) {
	s := extractSignals("reopen dispute 12", nil)
	assert.False(t, s.navVerb)
	assert.True(t, s.disputeMutation)
	assert.Equal(t, 12, s.disputeID)

	s = extractSignals("how many open disputes", nil)
	assert.False(t, s.disputeMutation)
	assert.True(t, s.aggregation)
}

func TestExtractSignals_HelpLead(t *testing.T) {
	assert.True(t, extractSignals("Please, can you explain the dashboard", nil).helpLead)
	assert.False(t, extractSignals("take me there and explain it", nil).helpLead)
}

func TestDisputeReference(t *testing.T) {
	id, ok := DisputeReference("Close Dispute ID: 1001 now")
	assert.True(t, ok)
	assert.Equal(t, 1001, id)

	_, ok = DisputeReference("close the dispute")
	assert.False(t, ok)
}
