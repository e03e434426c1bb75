package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
)

func seedProfiles(t *testing.T, s *Store, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		p := &models.Profile{Email: uuid.NewString() + "@campus.edu"}
		require.NoError(t, s.Create(context.Background(), p))
		ids[i] = p.ID
	}
	return ids
}

func TestConnectionPairIsUniqueInBothDirections(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ids := seedProfiles(t, s, 2)

	require.NoError(t, s.Connections().Create(ctx, &models.Connection{RequesterID: ids[0], ReceiverID: ids[1]}))

	err := s.Connections().Create(ctx, &models.Connection{RequesterID: ids[0], ReceiverID: ids[1]})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateConnection)
	err = s.Connections().Create(ctx, &models.Connection{RequesterID: ids[1], ReceiverID: ids[0]})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateConnection)
}

func TestConcurrentCreatesYieldOneConnection(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ids := seedProfiles(t, s, 2)

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := &models.Connection{RequesterID: ids[i%2], ReceiverID: ids[(i+1)%2]}
			if err := s.Connections().Create(ctx, conn); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestUpdateStatusIsCompareAndSwap(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ids := seedProfiles(t, s, 2)
	conn := &models.Connection{RequesterID: ids[0], ReceiverID: ids[1]}
	require.NoError(t, s.Connections().Create(ctx, conn))

	updated, err := s.Connections().UpdateStatus(ctx, conn.ID, models.ConnectionPending, models.ConnectionAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, updated.Status)

	_, err = s.Connections().UpdateStatus(ctx, conn.ID, models.ConnectionPending, models.ConnectionRejected)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = s.Connections().UpdateStatus(ctx, uuid.New(), models.ConnectionPending, models.ConnectionRejected)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAppendAssignsSequenceAndMonotonicTime(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ids := seedProfiles(t, s, 2)
	conn := &models.Connection{RequesterID: ids[0], ReceiverID: ids[1]}
	require.NoError(t, s.Connections().Create(ctx, conn))

	_, err := s.Messages().Append(ctx, conn.ID, ids[0], "too early")
	assert.ErrorIs(t, err, apperrors.ErrNotAccepted)

	_, err = s.Connections().UpdateStatus(ctx, conn.ID, models.ConnectionPending, models.ConnectionAccepted)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	s.Now = func() time.Time {
		t := clock[0]
		clock = clock[1:]
		return t
	}

	var msgs []*models.Message
	for _, text := range []string{"one", "two", "three"} {
		m, err := s.Messages().Append(ctx, conn.ID, ids[0], text)
		require.NoError(t, err)
		msgs = append(msgs, m)
	}
	assert.Equal(t, []int64{1, 2, 3}, []int64{msgs[0].Seq, msgs[1].Seq, msgs[2].Seq})
	assert.False(t, msgs[1].CreatedAt.Before(msgs[0].CreatedAt))

	last, err := s.Messages().LastSeq(ctx, conn.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, last)

	after, err := s.Messages().ListByConnection(ctx, conn.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "two", after[0].Content)
}

func TestReopenRequiresRejected(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ids := seedProfiles(t, s, 3)
	conn := &models.Connection{RequesterID: ids[0], ReceiverID: ids[1]}
	require.NoError(t, s.Connections().Create(ctx, conn))

	_, err := s.Connections().Reopen(ctx, conn.ID, ids[1], ids[0])
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = s.Connections().UpdateStatus(ctx, conn.ID, models.ConnectionPending, models.ConnectionRejected)
	require.NoError(t, err)

	_, err = s.Connections().Reopen(ctx, conn.ID, ids[2], ids[0])
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	reopened, err := s.Connections().Reopen(ctx, conn.ID, ids[1], ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionPending, reopened.Status)
	assert.Equal(t, ids[1], reopened.RequesterID)
}

func TestAccountsAreCaseInsensitive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, &models.Profile{Email: "Ada@Campus.edu"}, "hash"))
	err := s.CreateAccount(ctx, &models.Profile{Email: "ada@campus.edu"}, "hash")
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	acct, err := s.GetAccountByEmail(ctx, "ADA@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, "hash", acct.PasswordHash)
}

func TestProfilesAreCopied(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := &models.Profile{Email: "a@campus.edu", SkillsTeach: []string{"Go"}}
	require.NoError(t, s.Create(ctx, p))

	p.SkillsTeach[0] = "mutated"
	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, got.SkillsTeach)
}
