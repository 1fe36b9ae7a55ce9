package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batepapo-service/internal/models"
)

type presenceStub struct {
	mu      sync.Mutex
	calls   int
	evicted []models.Participant
	notices []models.Message
	err     error
	swept   chan struct{}
}

func (s *presenceStub) SweepExpired(ctx context.Context) ([]models.Participant, []models.Message, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.swept != nil {
		select {
		case s.swept <- struct{}{}:
		default:
		}
	}
	return s.evicted, s.notices, s.err
}

func (s *presenceStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type broadcasterStub struct {
	mu   sync.Mutex
	msgs []models.Message
}

func (b *broadcasterStub) BroadcastMessage(msg models.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
}

func TestSweepBroadcastsDepartureNotices(t *testing.T) {
	presence := &presenceStub{
		evicted: []models.Participant{{Name: "ana"}},
		notices: []models.Message{{ID: "n1", From: "ana", Type: models.KindStatus}},
	}
	hub := &broadcasterStub{}
	s := New(presence, hub, time.Minute)

	s.sweep(context.Background())

	require.Len(t, hub.msgs, 1)
	assert.Equal(t, "n1", hub.msgs[0].ID)
}

func TestSweepAbsorbsCycleErrors(t *testing.T) {
	presence := &presenceStub{err: errors.New("store unavailable")}
	s := New(presence, &broadcasterStub{}, time.Minute)

	// Must not panic or propagate; the next tick is the retry.
	s.sweep(context.Background())
	s.sweep(context.Background())

	assert.Equal(t, 2, presence.callCount())
}

func TestSweepWithoutHub(t *testing.T) {
	presence := &presenceStub{notices: []models.Message{{ID: "n1"}}}
	s := New(presence, nil, time.Minute)

	s.sweep(context.Background())

	assert.Equal(t, 1, presence.callCount())
}

func TestRunStopsOnCancel(t *testing.T) {
	presence := &presenceStub{swept: make(chan struct{}, 1)}
	s := New(presence, &broadcasterStub{}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-presence.swept:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ticked")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}
