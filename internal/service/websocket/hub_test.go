package websocket

import (
	"testing"

	"posecam/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestHubService_PublishDropsWhenBusy(t *testing.T) {
	hub := NewHubService(logger.Discard())

	for i := 0; i < broadcastBuffer; i++ {
		assert.True(t, hub.Publish([]byte("frame")))
	}
	assert.False(t, hub.Publish([]byte("frame")))
	assert.Equal(t, uint64(1), hub.Dropped())
}

func TestHubService_StopEndsRun(t *testing.T) {
	hub := NewHubService(logger.Discard())
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	hub.Stop()
	hub.Stop()
	<-done

	assert.Equal(t, 0, hub.GetClientCount())
}
