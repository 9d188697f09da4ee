package router

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_SetStickyOverwrites(t *testing.T) {
	c := NewContext("s")
	c.SetSticky(ModeHelp, 5)
	c.SetSticky(ModeAnalytics, 2)

	assert.Equal(t, ModeAnalytics, c.ConsumeTurn())
	assert.Equal(t, 1, c.StickyRemaining)
	assert.Equal(t, ModeAnalytics, c.ConsumeTurn())
	assert.Equal(t, ModeNone, c.StickyMode)
	assert.Equal(t, ModeNone, c.ConsumeTurn())
	assert.Zero(t, c.StickyRemaining)
}

func TestContext_SetStickyClears(t *testing.T) {
	c := NewContext("s")
	c.SetSticky(ModeAnalytics, 3)
	c.SetSticky(ModeAnalytics, 0)
	assert.Equal(t, ModeNone, c.ConsumeTurn())

	c.SetSticky(Mode("bogus"), 3)
	assert.Equal(t, ModeNone, c.StickyMode)
	assert.Zero(t, c.StickyRemaining)
}

func TestIsReplyContext(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"", false},
		{"Who should I send it to?", true},
		{"I drafted the email. Reply yes to send.", true},
		{"Shall I send this to john@example.com.", true},
		{"Please confirm the recipients.", true},
		{"Here are the top 3 carriers.", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsReplyContext(tt.msg), tt.msg)
	}
}

func TestContext_CompleteKeepsTail(t *testing.T) {
	c := NewContext("s")
	long := strings.Repeat("é", 400) + " Would you like me to send it?"
	c.Complete(ModeEmail, long)

	assert.Equal(t, ModeEmail, c.CurrentMode)
	assert.LessOrEqual(t, len(c.LastAssistantMessage), lastMessageTail)
	assert.True(t, strings.HasSuffix(c.LastAssistantMessage, "send it?"))
	assert.True(t, c.IsReplyContext())

	c.Complete(Mode("nonsense"), "ok")
	assert.Equal(t, ModeEmail, c.CurrentMode)
}
