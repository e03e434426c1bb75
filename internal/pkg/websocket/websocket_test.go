package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/skillswap/internal/app/auth"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/app/models/dto"
	"github.com/yigit/skillswap/internal/app/repositories/memory"
	"github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/config"
	"github.com/yigit/skillswap/internal/middleware"
	"github.com/yigit/skillswap/internal/pkg/realtime"
)

type chatFixture struct {
	server      *httptest.Server
	hub         *Hub
	store       *memory.Store
	connections *services.ConnectionService
	chat        *services.ConversationService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	store := memory.NewStore()
	bus := realtime.NewLocalBus()
	authz := auth.NewAuthorizationService(store.Connections(), log)
	f := &chatFixture{
		store:       store,
		connections: services.NewConnectionService(store.Connections(), store, authz, config.ReRequestBlocked, log),
		chat:        services.NewConversationService(store.Messages(), authz, bus, 4000, log),
		hub:         NewHub(log),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go f.hub.Run(ctx)

	handler := NewHandler(f.hub, f.chat, nil, log)
	r := gin.New()
	r.GET("/conversations/:id/ws", func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader("X-User"))
		if err == nil {
			c.Set(middleware.ContextUserID, id)
		}
	}, handler.HandleConnection)
	f.server = httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		f.server.Close()
		_ = bus.Close()
	})
	return f
}

func (f *chatFixture) profile(t *testing.T, name string) models.Profile {
	t.Helper()
	p := &models.Profile{Email: name + "@campus.edu", FullName: name}
	require.NoError(t, f.store.Create(context.Background(), p))
	return *p
}

func (f *chatFixture) accepted(t *testing.T, a, b models.Profile) models.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := f.connections.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	conn, err = f.connections.Respond(ctx, b.ID, conn.ID, models.ConnectionAccepted)
	require.NoError(t, err)
	return *conn
}

func (f *chatFixture) dial(t *testing.T, connectionID, userID uuid.UUID) (*gorilla.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/conversations/" + connectionID.String() + "/ws"
	header := http.Header{}
	header.Set("X-User", userID.String())
	conn, resp, err := gorilla.DefaultDialer.Dial(url, header)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

// readFrames reads until n frames arrived. Several frames may share one
// websocket message, one per line.
func readFrames(t *testing.T, conn *gorilla.Conn, n int) []dto.WSServerMessage {
	t.Helper()
	var frames []dto.WSServerMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for len(frames) < n {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		for _, line := range bytes.Split(data, newline) {
			var frame dto.WSServerMessage
			require.NoError(t, json.Unmarshal(line, &frame))
			frames = append(frames, frame)
		}
	}
	return frames
}

func TestSocketReceivesMessagesInOrder(t *testing.T) {
	f := newChatFixture(t)
	a, b := f.profile(t, "a"), f.profile(t, "b")
	conn := f.accepted(t, a, b)

	ws, _, err := f.dial(t, conn.ID, a.ID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.hub.GetClientsCount(conn.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.chat.Append(context.Background(), conn.ID, b.ID, text)
		require.NoError(t, err)
	}

	frames := readFrames(t, ws, 3)
	for i, frame := range frames {
		require.Equal(t, dto.WSTypeMessage, frame.Type)
		assert.Equal(t, int64(i+1), frame.Message.Seq)
		assert.Equal(t, b.ID.String(), frame.Message.SenderID)
	}
	assert.Equal(t, "three", frames[2].Message.Content)
}

func TestSocketFramesAreAppended(t *testing.T) {
	f := newChatFixture(t)
	a, b := f.profile(t, "a"), f.profile(t, "b")
	conn := f.accepted(t, a, b)

	ws, _, err := f.dial(t, conn.ID, a.ID)
	require.NoError(t, err)

	require.NoError(t, ws.WriteJSON(dto.WSClientMessage{Type: dto.WSTypeMessage, Content: "hello"}))
	frames := readFrames(t, ws, 1)
	require.Equal(t, dto.WSTypeMessage, frames[0].Type)
	assert.Equal(t, "hello", frames[0].Message.Content)
	assert.Equal(t, a.ID.String(), frames[0].Message.SenderID)

	msgs, err := f.chat.Load(context.Background(), b.ID, conn.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, ws.WriteJSON(dto.WSClientMessage{Type: dto.WSTypeMessage, Content: "   "}))
	frames = readFrames(t, ws, 1)
	require.Equal(t, dto.WSTypeError, frames[0].Type)
	assert.Equal(t, dto.ErrorCodeEmptyContent, frames[0].Error.Code)

	require.NoError(t, ws.WriteMessage(gorilla.TextMessage, []byte("not json")))
	frames = readFrames(t, ws, 1)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, frames[0].Error.Code)
}

func TestSocketRefusals(t *testing.T) {
	f := newChatFixture(t)
	a, b, c := f.profile(t, "a"), f.profile(t, "b"), f.profile(t, "c")
	conn := f.accepted(t, a, b)

	pending, err := f.connections.SendRequest(context.Background(), a.ID, c.ID)
	require.NoError(t, err)

	_, resp, err := f.dial(t, conn.ID, c.ID)
	require.ErrorIs(t, err, gorilla.ErrBadHandshake)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = f.dial(t, pending.ID, a.ID)
	require.ErrorIs(t, err, gorilla.ErrBadHandshake)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	_, resp, err = f.dial(t, uuid.New(), a.ID)
	require.ErrorIs(t, err, gorilla.ErrBadHandshake)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClosingSocketUnregisters(t *testing.T) {
	f := newChatFixture(t)
	a, b := f.profile(t, "a"), f.profile(t, "b")
	conn := f.accepted(t, a, b)

	ws, _, err := f.dial(t, conn.ID, a.ID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.hub.GetClientsCount(conn.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ws.WriteMessage(gorilla.CloseMessage,
		gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "bye")))
	ws.Close()

	require.Eventually(t, func() bool { return f.hub.GetClientsCount(conn.ID) == 0 }, 2*time.Second, 10*time.Millisecond)

	// Appending after the socket left must not panic on a closed client.
	_, err = f.chat.Append(context.Background(), conn.ID, b.ID, "still there?")
	require.NoError(t, err)
}
