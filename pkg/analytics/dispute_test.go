package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisputeCommand(t *testing.T) {
	tests := []struct {
		text string
		op   string
		args map[string]interface{}
	}{
		{"Close dispute 1001", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": int64(1001), "action": "close"}},
		{"please reopen dispute #42", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": int64(42), "action": "reopen"}},
		{"Re-open Dispute ID: 9", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": int64(9), "action": "reopen"}},
		{"toggle the status of dispute 3", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": int64(3), "action": "toggle"}},
		{"mark dispute 12 as resolved", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": int64(12), "action": "close"}},
		{"Comment on dispute 5: waiting on carrier", OpAddDisputeComment, map[string]interface{}{"dispute_id": int64(5), "comment": "waiting on carrier"}},
		{"can you close dispute 77?", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": int64(77), "action": "close"}},
		{"comment on dispute 5: is the carrier late?", OpAddDisputeComment, map[string]interface{}{"dispute_id": int64(5), "comment": "is the carrier late?"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			op, args, ok := parseDisputeCommand(tt.text)
			assert.True(t, ok)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.args, args)
		})
	}

	for _, text := range []string{
		"how many open disputes",
		"close the dispute",
		"dispute 1001 status",
		"don't close dispute 1001",
		"please do not close dispute 1001",
		"how to close dispute 1001",
		"should I close dispute 1001?",
		"close dispute 1001?",
		"I never said to close dispute 1001",
	} {
		_, _, ok := parseDisputeCommand(text)
		assert.False(t, ok, text)
	}
}

func TestHesitantDisputeChange(t *testing.T) {
	tests := []struct {
		text     string
		id       int64
		hesitant bool
	}{
		{"don't close dispute 1001", 1001, true},
		{"please do not reopen dispute 42", 42, true},
		{"how to close dispute 1001", 1001, true},
		{"how do I mark dispute 8 as resolved", 8, true},
		{"should I close dispute 1001?", 1001, true},
		{"close dispute 1001?", 1001, true},
		{"close dispute 1001", 0, false},
		{"could you close dispute 1001?", 0, false},
		{"what is the status of dispute 1001", 0, false},
		{"top 3 carriers by spend", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			id, ok := hesitantDisputeChange(tt.text)
			assert.Equal(t, tt.hesitant, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
