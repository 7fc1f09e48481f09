package http

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/roomchat-server/internal/proto"
)

func TestConnectedAnnouncesProtocolVersion(t *testing.T) {
	s := startTestServer(t)

	// dial asserts the version on the connected event.
	c := s.dial(t)
	assert.NotEmpty(t, c.ref)
	assert.Equal(t, 1, proto.ProtocolVersion)
	assert.Equal(t, 1, s.hub.Len())
}
