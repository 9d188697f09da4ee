package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("execute: %w", New(KindNoData, "aggregate_count", nil))

	assert.True(t, errors.Is(err, ErrNoData))
	assert.False(t, errors.Is(err, ErrTransport))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindNoData, kind)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", Validation("run", "unknown operation %q", "drop_table"), MsgQueryValidation},
		{"no data", New(KindNoData, "run", nil), MsgNoData},
		{"overloaded beats transport", Transport("complete", ErrOverloaded), MsgOverloaded},
		{"bare sentinel", ErrRetrievalEmpty, MsgRetrievalEmpty},
		{"unknown error hides detail", errors.New("pq: relation \"disputes\" does not exist"), MsgTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
