package router

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// lastMessageTail is how much of the previous assistant message is kept.
// Solicitations sit at the end of a reply, so the tail is enough.
const lastMessageTail = 500

// Context is the per-session conversation state. It is owned by exactly one
// session and mutated once per turn; callers serialize access per session.
type Context struct {
	SessionID            string `json:"session_id"`
	CurrentMode          Mode   `json:"current_mode"`
	StickyMode           Mode   `json:"sticky_mode,omitempty"`
	StickyRemaining      int    `json:"sticky_remaining"`
	LastAssistantMessage string `json:"last_assistant_message,omitempty"`
}

func NewContext(sessionID string) *Context {
	return &Context{SessionID: sessionID, CurrentMode: ModeHelp}
}

// SetSticky forces mode for the next turns turns, replacing any earlier
// override. A non-positive turn count or an invalid mode clears it.
func (c *Context) SetSticky(mode Mode, turns int) {
	if turns <= 0 || !mode.Valid() {
		c.StickyMode, c.StickyRemaining = ModeNone, 0
		return
	}
	c.StickyMode, c.StickyRemaining = mode, turns
}

// ConsumeTurn returns the sticky hint for this turn, if any, and counts the
// turn against it.
func (c *Context) ConsumeTurn() Mode {
	if c.StickyMode == ModeNone || c.StickyRemaining <= 0 {
		c.StickyMode, c.StickyRemaining = ModeNone, 0
		return ModeNone
	}
	hint := c.StickyMode
	c.StickyRemaining--
	if c.StickyRemaining == 0 {
		c.StickyMode = ModeNone
	}
	return hint
}

// IsReplyContext reports whether the previous assistant message asked the
// user something.
func (c *Context) IsReplyContext() bool {
	return IsReplyContext(c.LastAssistantMessage)
}

// Complete records the outcome of a turn.
func (c *Context) Complete(mode Mode, reply string) {
	if mode.Valid() {
		c.CurrentMode = mode
	}
	if len(reply) > lastMessageTail {
		cut := len(reply) - lastMessageTail
		for cut < len(reply) && !utf8.RuneStart(reply[cut]) {
			cut++
		}
		reply = reply[cut:]
	}
	c.LastAssistantMessage = reply
}

var solicitation = regexp.MustCompile(`\b(would you like|shall i|should i|do you want|confirm|reply yes|approve|send it|proceed)\b`)

func IsReplyContext(lastAssistant string) bool {
	if lastAssistant == "" {
		return false
	}
	if strings.Contains(lastAssistant, "?") {
		return true
	}
	return solicitation.MatchString(strings.ToLower(lastAssistant))
}
