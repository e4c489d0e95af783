package audit

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/logger"
)

func TestMockModePublishesNothing(t *testing.T) {
	p := NewProducer(nil, "eventdesk-audit", true, logger.New(io.Discard, false))

	require.Nil(t, p.Writer, "mock mode must not open a connection")
	assert.NoError(t, p.Publish("ticket.create", "ticket", []string{"t1"}))
	assert.NoError(t, p.Close())
}

func TestRealModeBuildsWriter(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "eventdesk-audit", false, logger.New(io.Discard, false))
	require.NotNil(t, p.Writer)
	assert.Equal(t, "eventdesk-audit", p.Writer.Topic)
	assert.NoError(t, p.Close())
}
