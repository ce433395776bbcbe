package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"skillswap/internal/domain/notification"
	"skillswap/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met")
}

func TestHub_SendsOnlyToTargetUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Discard())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	alice, bob := uuid.New(), uuid.New()
	a1 := &Client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	a2 := &Client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	b1 := &Client{hub: hub, userID: bob, send: make(chan []byte, 4)}
	for _, c := range []*Client{a1, a2, b1} {
		hub.Register(c)
	}
	waitFor(t, func() bool { return hub.ConnectionCount(alice) == 2 && hub.ConnectionCount(bob) == 1 })

	require.NoError(t, hub.PushNotification(notification.Match(alice, uuid.New(), "Bob")))

	for _, c := range []*Client{a1, a2} {
		select {
		case msg := <-c.send:
			var evt NotificationEvent
			require.NoError(t, json.Unmarshal(msg, &evt))
			assert.Equal(t, "notification", evt.Type)
			assert.Equal(t, "match", evt.Notification)
			assert.Equal(t, "You and Bob liked each other!", evt.Content)
		case <-time.After(time.Second):
			t.Fatalf("alice connection got nothing")
		}
	}
	select {
	case <-b1.send:
		t.Fatalf("bob should not receive alice's notification")
	default:
	}

	hub.Unregister(a1)
	waitFor(t, func() bool { return hub.ConnectionCount(alice) == 1 })
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	assert.False(t, hub.SendToUser(uuid.New(), []byte("x")))
	assert.NoError(t, hub.PushNotification(notification.Notification{}))
	assert.Zero(t, hub.ConnectionCount(uuid.New()))
}
