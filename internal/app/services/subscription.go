package services

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/metrics"
)

const (
	backfillTimeout    = 5 * time.Second
	backfillRetryDelay = time.Second
)

// MessageHandler receives the messages of a subscription, one at a time and
// in seq order. It must not call Close on its own subscription.
type MessageHandler func(models.Message)

// Subscription delivers every message of one connection with seq above its
// baseline exactly once and in seq order, whatever order and however often
// the bus hands them over. Gaps are filled from the store.
type Subscription struct {
	connectionID uuid.UUID
	store        MessageStore
	handler      MessageHandler
	logger       zerolog.Logger

	// inbox is filled by the bus callback and drained by the pump.
	mu    sync.Mutex
	inbox []models.Message
	wake  chan struct{}

	// Owned by the pump goroutine.
	lastSeq int64
	pending map[int64]models.Message

	deliverMu   sync.Mutex
	closed      atomic.Bool
	closeOnce   sync.Once
	unsubscribe func()

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newSubscription(connectionID uuid.UUID, baseline int64, store MessageStore, handler MessageHandler, logger zerolog.Logger) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscription{
		connectionID: connectionID,
		store:        store,
		handler:      handler,
		logger:       logger,
		wake:         make(chan struct{}, 1),
		lastSeq:      baseline,
		pending:      make(map[int64]models.Message),
		unsubscribe:  func() {},
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
}

// ConnectionID is the connection this subscription follows.
func (s *Subscription) ConnectionID() uuid.UUID { return s.connectionID }

// Done is closed once the subscription has stopped.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// onPayload is the bus callback. It never blocks on the handler.
func (s *Subscription) onPayload(payload []byte) {
	if s.closed.Load() {
		return
	}

	var msg models.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		s.logger.Warn().Err(err).Msg("Ignoring malformed conversation event")
		return
	}
	if msg.ConnectionID != s.connectionID {
		return
	}

	s.mu.Lock()
	s.inbox = append(s.inbox, msg)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) run() {
	defer close(s.done)

	var retry <-chan time.Time
	if !s.backfill() {
		retry = time.After(backfillRetryDelay)
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-retry:
			retry = nil
			if !s.backfill() {
				retry = time.After(backfillRetryDelay)
			}
		case <-s.wake:
			s.mu.Lock()
			batch := s.inbox
			s.inbox = nil
			s.mu.Unlock()

			for _, msg := range batch {
				s.accept(msg)
			}
			if len(s.pending) > 0 {
				metrics.GapBackfills.Inc()
				if !s.backfill() && retry == nil {
					retry = time.After(backfillRetryDelay)
				}
			}
		}
	}
}

// accept files msg and delivers whatever has become contiguous.
func (s *Subscription) accept(msg models.Message) {
	if msg.Seq <= s.lastSeq {
		return
	}
	if _, dup := s.pending[msg.Seq]; dup {
		return
	}
	s.pending[msg.Seq] = msg
	s.drain()
}

func (s *Subscription) drain() {
	for {
		next, ok := s.pending[s.lastSeq+1]
		if !ok {
			return
		}
		delete(s.pending, next.Seq)
		s.deliver(next)
		s.lastSeq = next.Seq
	}
}

// backfill loads everything after lastSeq from the store. Message n is
// committed before n+1 is assigned, so the store never has a gap below a
// seq the bus has already shown us.
func (s *Subscription) backfill() bool {
	ctx, cancel := context.WithTimeout(s.ctx, backfillTimeout)
	defer cancel()

	msgs, err := s.store.ListByConnection(ctx, s.connectionID, s.lastSeq, 0)
	if err != nil {
		if s.ctx.Err() == nil {
			s.logger.Warn().Err(err).
				Str("connectionID", s.connectionID.String()).
				Int64("afterSeq", s.lastSeq).
				Msg("Subscription back-fill failed")
		}
		return false
	}

	for _, msg := range msgs {
		if msg.Seq > s.lastSeq {
			s.pending[msg.Seq] = msg
		}
	}
	s.drain()
	return true
}

func (s *Subscription) deliver(msg models.Message) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.closed.Load() {
		return
	}
	s.handler(msg)
}

// Close stops the subscription. When Close returns the handler is not
// running and will not be called again. Close is idempotent.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.closed.Store(true)
		// Wait out a delivery in progress.
		s.deliverMu.Lock()
		s.deliverMu.Unlock()
		s.cancel()
		metrics.LiveSubscriptions.Dec()
	})
}
