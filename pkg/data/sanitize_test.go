package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeAnswer(t *testing.T) {
	t.Run("strips surrounding prose", func(t *testing.T) {
		out, err := SanitizeAnswer("Sure, here you go:\n{\"tool\": \"greet\"}\nHope that helps!")
		require.NoError(t, err)
		assert.Equal(t, `{"tool": "greet"}`, out)
	})

	t.Run("keeps nested objects", func(t *testing.T) {
		out, err := SanitizeAnswer(`{"steps": [{"agent": "HrAgent", "action": "x"}]}`)
		require.NoError(t, err)
		assert.Equal(t, `{"steps": [{"agent": "HrAgent", "action": "x"}]}`, out)
	})

	t.Run("no object", func(t *testing.T) {
		_, err := SanitizeAnswer("no json here")
		assert.Error(t, err)
	})
}
