package bookshelf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_levels(t *testing.T) {
	output := &bytes.Buffer{}
	logger, err := NewLogger("Warn", output)
	require.Nil(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, output.String(), "hidden")
	assert.Contains(t, output.String(), "shown")
}

func TestLogger_withFields(t *testing.T) {
	output := &bytes.Buffer{}
	logger, err := NewLogger("Debug", output)
	require.Nil(t, err)

	logger.
		WithFields(LoggerFields{"request_id": "abc"}).
		WithFields(LoggerFields{"kind": "user"}).
		Debug("lookup failed")

	assert.Contains(t, output.String(), "request_id=abc")
	assert.Contains(t, output.String(), "kind=user")
	assert.Contains(t, output.String(), "lookup failed")
}

func TestNewLogger_unknownLevel(t *testing.T) {
	_, err := NewLogger("chatty", nil)
	assert.NotNil(t, err)
}
