package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ServerDesk/entity"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type tokenAuth string

func (a tokenAuth) AuthenticateByToken(token string) (string, error) {
	if token != string(a) {
		return "", errors.New("bad token")
	}
	return "dashboard", nil
}

func startFeed(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, tokenAuth("secret"), log, w, r)
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func TestFeedBroadcastsDispatchEvents(t *testing.T) {
	hub, srv := startFeed(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=secret"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.CommandDispatched(entity.DispatchEvent{ID: "abc", Kind: entity.CommandList, ChannelID: "C1", Lines: 3})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type string               `json:"type"`
		Data entity.DispatchEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "command_dispatched", got.Type)
	require.Equal(t, "abc", got.Data.ID)
	require.Equal(t, entity.CommandList, got.Data.Kind)
	require.Equal(t, 3, got.Data.Lines)
}

func TestFeedRejectsBadToken(t *testing.T) {
	_, srv := startFeed(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=wrong"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCommandDispatchedNeverBlocks(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	// Hub not running: the queue fills up and further events are dropped.
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.CommandDispatched(entity.DispatchEvent{ID: "x"})
	}
	require.Len(t, hub.broadcast, cap(hub.broadcast))
}
