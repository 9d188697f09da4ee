package gemini

import (
	"testing"

	"cubie-assistant/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToContents_FoldsSystemMessages(t *testing.T) {
	contents, system := toContents([]llm.Message{
		{Role: "system", Content: "history rule"},
		{Role: "user", Content: "top carriers"},
		{Role: "assistant", Content: "Here they are"},
	}, "You are Cubie.")

	assert.Equal(t, "You are Cubie.\n\nhistory rule", system)
	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
}

func TestToGenaiSchema(t *testing.T) {
	s := llm.Object([]string{"dispute_id"}, map[string]*llm.Schema{
		"dispute_id": llm.Integer("Dispute number", 1, 1e12),
		"action":     llm.Enum("What to do", "close", "open"),
	})

	out := toGenaiSchema(s)

	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"dispute_id"}, out.Required)
	assert.Equal(t, genai.TypeInteger, out.Properties["dispute_id"].Type)
	assert.Equal(t, []string{"close", "open"}, out.Properties["action"].Enum)
	require.NotNil(t, out.Properties["dispute_id"].Minimum)
	assert.Equal(t, 1.0, *out.Properties["dispute_id"].Minimum)
}
