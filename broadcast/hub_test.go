package broadcast

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actioncam/logger"
	"actioncam/recognize"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)
	return conn
}

func TestHubBroadcastsResultMessages(t *testing.T) {
	hub := NewHub(logger.New(""))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dialTestHub(t, hub)

	hub.BroadcastJSON(NewIntermediateMessage(recognize.IntermediateResult{
		SessionID: "s-1",
		Labels:    []recognize.RankedLabel{{Rank: 1, Label: "running", Score: 1.8}},
		Timestamp: time.Now(),
	}))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	messageType, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, messageType)

	var msg ResultMessage
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, TypeIntermediate, msg.Type)
	assert.Equal(t, "s-1", msg.SessionID)
	require.Len(t, msg.Labels, 1)
	assert.Equal(t, "running", msg.Labels[0].Label)
}

func TestHubBroadcastsBinaryFrames(t *testing.T) {
	hub := NewHub(logger.New(""))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dialTestHub(t, hub)

	hub.BroadcastBinary([]byte{0xff, 0xd8, 0xff})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	messageType, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, messageType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, payload)
}

func TestFinalMessageCarriesClipCount(t *testing.T) {
	msg := NewFinalMessage(recognize.FinalResult{
		SessionID: "s-2",
		Clips:     150,
		Labels:    []recognize.RankedLabel{{Rank: 1, Label: "walking", Score: 99}},
	})
	assert.Equal(t, TypeFinal, msg.Type)
	assert.Equal(t, 150, msg.Clips)
}
