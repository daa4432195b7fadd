package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientKey(t *testing.T) {
	c := &Client{prefix: "crm:"}
	assert.Equal(t, "crm:filters:sid-1", c.key("filters", "sid-1"))
	assert.Equal(t, "crm:events", c.key(eventsChannel))

	bare := &Client{}
	assert.Equal(t, "inflight:42", bare.key("inflight", "42"))
}
