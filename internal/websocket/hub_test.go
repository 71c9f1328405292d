package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWantsAreaFiltering(t *testing.T) {
	unsubscribed := &Client{}
	assert.True(t, unsubscribed.wantsArea("tokyo_station"))
	assert.True(t, unsubscribed.wantsArea(""))

	subscribed := &Client{areaID: "shibuya"}
	assert.True(t, subscribed.wantsArea("shibuya"))
	assert.False(t, subscribed.wantsArea("tokyo_station"))
	// Global events reach everyone regardless of subscription.
	assert.True(t, subscribed.wantsArea(""))
}

func TestHubTracksClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := NewClient(nil, hub)
	hub.register <- c

	// register/unregister are handled by the run loop; GetClientCount
	// takes the same lock so it observes the registration.
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.unregister <- c
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
