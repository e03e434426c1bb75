package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/config"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/realtime"
)

func TestEndToEndSwap(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", []string{"Python"}, []string{"Canva"})
	b := env.profile(t, "b", []string{"Canva"}, []string{"Python"})

	matches, err := env.matches.MatchesFor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, b.ID, matches[0].Profile.ID)
	assert.Equal(t, 100, matches[0].Compatibility)

	conn, err := env.connections.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = env.connections.Respond(ctx, b.ID, conn.ID, models.ConnectionAccepted)
	require.NoError(t, err)

	msg, err := env.conversations.Append(ctx, conn.ID, a.ID, "hi")
	require.NoError(t, err)
	assert.EqualValues(t, 1, msg.Seq)

	history, err := env.conversations.Load(ctx, b.ID, conn.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, a.ID, history[0].SenderID)
}

func TestAppendValidation(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	c := env.profile(t, "c", nil, nil)

	pending, err := env.connections.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = env.conversations.Append(ctx, pending.ID, a.ID, "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotAccepted)

	_, err = env.connections.Respond(ctx, b.ID, pending.ID, models.ConnectionAccepted)
	require.NoError(t, err)

	_, err = env.conversations.Append(ctx, pending.ID, a.ID, "   \n\t")
	assert.ErrorIs(t, err, apperrors.ErrEmptyContent)

	_, err = env.conversations.Append(ctx, pending.ID, a.ID, strings.Repeat("x", 51))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = env.conversations.Append(ctx, pending.ID, c.ID, "intruder")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = env.conversations.Append(ctx, uuid.New(), a.ID, "nowhere")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	msg, err := env.conversations.Append(ctx, pending.ID, b.ID, "  trimmed  ")
	require.NoError(t, err)
	assert.Equal(t, "trimmed", msg.Content)
}

func TestAppendOnRejectedConnection(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)

	conn, err := env.connections.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = env.connections.Respond(ctx, b.ID, conn.ID, models.ConnectionRejected)
	require.NoError(t, err)

	_, err = env.conversations.Append(ctx, conn.ID, a.ID, "please")
	assert.ErrorIs(t, err, apperrors.ErrNotAccepted)
}

func TestLoadIsIdempotentAndPrivate(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	c := env.profile(t, "c", nil, nil)
	conn := env.accepted(t, a, b)

	for _, text := range []string{"one", "two", "three"} {
		_, err := env.conversations.Append(ctx, conn.ID, a.ID, text)
		require.NoError(t, err)
	}

	first, err := env.conversations.Load(ctx, a.ID, conn.ID)
	require.NoError(t, err)
	second, err := env.conversations.Load(ctx, b.ID, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = env.conversations.Load(ctx, c.ID, conn.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = env.conversations.Load(ctx, a.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	page, err := env.conversations.LoadPage(ctx, a.ID, conn.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "two", page[0].Content)
}

func TestAppendOrderingAcrossConnections(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	c := env.profile(t, "c", nil, nil)
	ab := env.accepted(t, a, b)
	ac := env.accepted(t, a, c)

	const n = 25
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_, err := env.conversations.Append(ctx, ab.ID, a.ID, "ab")
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_, err := env.conversations.Append(ctx, ac.ID, c.ID, "ac")
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	for _, id := range []uuid.UUID{ab.ID, ac.ID} {
		msgs, err := env.conversations.Load(ctx, a.ID, id)
		require.NoError(t, err)
		require.Len(t, msgs, n)
		for i, m := range msgs {
			assert.EqualValues(t, i+1, m.Seq)
			assert.Equal(t, id, m.ConnectionID)
			if i > 0 {
				assert.False(t, m.CreatedAt.Before(msgs[i-1].CreatedAt))
			}
		}
	}
}

type collector struct {
	mu   sync.Mutex
	msgs []models.Message
}

func (c *collector) handle(m models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
}

func (c *collector) seqs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = m.Seq
	}
	return out
}

func waitForSeqs(t *testing.T, c *collector, want []int64) {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.seqs()) >= len(want) }, 2*time.Second, 5*time.Millisecond)
	// Give stray duplicates a chance to show up.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, want, c.seqs())
}

func TestSubscribeDeliversNewMessagesInOrder(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	conn := env.accepted(t, a, b)

	_, err := env.conversations.Append(ctx, conn.ID, a.ID, "before")
	require.NoError(t, err)

	got := &collector{}
	sub, err := env.conversations.Subscribe(ctx, b.ID, conn.ID, got.handle)
	require.NoError(t, err)
	defer sub.Close()

	for _, text := range []string{"x", "y", "z"} {
		_, err := env.conversations.Append(ctx, conn.ID, a.ID, text)
		require.NoError(t, err)
	}

	waitForSeqs(t, got, []int64{2, 3, 4})
}

func publishRaw(t *testing.T, bus realtime.Bus, m *models.Message) {
	t.Helper()
	payload, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), realtime.ConversationTopic(m.ConnectionID), payload))
}

func TestSubscribeDropsDuplicatesAndReorders(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	conn := env.accepted(t, a, b)

	got := &collector{}
	sub, err := env.conversations.Subscribe(ctx, b.ID, conn.ID, got.handle)
	require.NoError(t, err)
	defer sub.Close()

	// Written straight to the store, so only our publications reach the bus.
	var stored []*models.Message
	for _, text := range []string{"1", "2", "3"} {
		m, err := env.store.Messages().Append(ctx, conn.ID, a.ID, text)
		require.NoError(t, err)
		stored = append(stored, m)
	}

	publishRaw(t, env.bus, stored[2])
	publishRaw(t, env.bus, stored[0])
	publishRaw(t, env.bus, stored[0])
	publishRaw(t, env.bus, stored[1])
	publishRaw(t, env.bus, stored[2])

	waitForSeqs(t, got, []int64{1, 2, 3})
}

func TestSubscribeBackfillsLostPublications(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	conn := env.accepted(t, a, b)

	got := &collector{}
	sub, err := env.conversations.Subscribe(ctx, b.ID, conn.ID, got.handle)
	require.NoError(t, err)
	defer sub.Close()

	var last *models.Message
	for _, text := range []string{"1", "2", "3"} {
		last, err = env.store.Messages().Append(ctx, conn.ID, a.ID, text)
		require.NoError(t, err)
	}
	// Only the newest one is published; 1 and 2 come from the store.
	publishRaw(t, env.bus, last)

	waitForSeqs(t, got, []int64{1, 2, 3})
}

func TestSubscribeIgnoresOtherConnections(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	c := env.profile(t, "c", nil, nil)
	ab := env.accepted(t, a, b)
	ac := env.accepted(t, a, c)

	got := &collector{}
	sub, err := env.conversations.Subscribe(ctx, b.ID, ab.ID, got.handle)
	require.NoError(t, err)
	defer sub.Close()

	_, err = env.conversations.Append(ctx, ac.ID, a.ID, "not for b")
	require.NoError(t, err)
	_, err = env.conversations.Append(ctx, ab.ID, a.ID, "for b")
	require.NoError(t, err)

	waitForSeqs(t, got, []int64{1})
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	conn := env.accepted(t, a, b)

	got := &collector{}
	sub, err := env.conversations.Subscribe(ctx, b.ID, conn.ID, got.handle)
	require.NoError(t, err)

	_, err = env.conversations.Append(ctx, conn.ID, a.ID, "seen")
	require.NoError(t, err)
	waitForSeqs(t, got, []int64{1})

	sub.Close()
	sub.Close()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription did not stop")
	}
	assert.Zero(t, env.bus.Subscribers(realtime.ConversationTopic(conn.ID)))

	_, err = env.conversations.Append(ctx, conn.ID, a.ID, "unseen")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []int64{1}, got.seqs())
}

func TestSubscribeRequiresAcceptedParty(t *testing.T) {
	env := newTestEnv(t, config.ReRequestBlocked)
	ctx := context.Background()
	a := env.profile(t, "a", nil, nil)
	b := env.profile(t, "b", nil, nil)
	c := env.profile(t, "c", nil, nil)

	pending, err := env.connections.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = env.conversations.Subscribe(ctx, a.ID, pending.ID, func(models.Message) {})
	assert.ErrorIs(t, err, apperrors.ErrNotAccepted)

	conn := env.accepted(t, a, c)
	_, err = env.conversations.Subscribe(ctx, b.ID, conn.ID, func(models.Message) {})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
