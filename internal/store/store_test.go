package store

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/guard-bot/internal/models"
	"go.uber.org/zap"
)

func TestSessionStore_TakeIfPresent(t *testing.T) {
	s := NewSessionStore()
	s.Put(models.Session{MessageID: 1, ChatID: 10, Reason: models.ReasonClassifier})

	sess, ok := s.TakeIfPresent(1)
	require.True(t, ok)
	assert.Equal(t, int64(10), sess.ChatID)

	// Consumed: the second take misses.
	_, ok = s.TakeIfPresent(1)
	assert.False(t, ok)

	_, ok = s.TakeIfPresent(99)
	assert.False(t, ok)
}

func TestSessionStore_ConcurrentTakeConsumesOnce(t *testing.T) {
	s := NewSessionStore()
	s.Put(models.Session{MessageID: 1})

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.TakeIfPresent(1); ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}

func TestSessionStore_PutOverwrites(t *testing.T) {
	s := NewSessionStore()
	s.Put(models.Session{MessageID: 1, Reason: models.ReasonEmojis})
	s.Put(models.Session{MessageID: 1, Reason: models.ReasonClassifier})

	require.Equal(t, 1, s.Len())
	sess, ok := s.TakeIfPresent(1)
	require.True(t, ok)
	assert.Equal(t, models.ReasonClassifier, sess.Reason)
}

func TestPendingStore_GetDoesNotConsume(t *testing.T) {
	s := NewPendingStore()
	s.Put(models.PendingSubmission{ID: "a", Text: "text"})

	_, ok := s.Get("a")
	require.True(t, ok)
	_, ok = s.Get("a")
	require.True(t, ok)

	_, ok = s.TakeIfPresent("a")
	require.True(t, ok)
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestJanitor_SweepClearsEverything(t *testing.T) {
	sessions := NewSessionStore()
	pending := NewPendingStore()
	sessions.Put(models.Session{MessageID: 1})
	pending.Put(models.PendingSubmission{ID: "a"})

	j := NewJanitor(time.Hour, zap.NewNop(), sessions, pending)
	j.Sweep()

	_, ok := sessions.TakeIfPresent(1)
	assert.False(t, ok)
	_, ok = pending.TakeIfPresent("a")
	assert.False(t, ok)

	// A second sweep over empty stores is a no-op.
	j.Sweep()
	assert.Equal(t, 0, sessions.Len())
	assert.Equal(t, 0, pending.Len())
}

func TestJanitor_StartStop(t *testing.T) {
	sessions := NewSessionStore()
	sessions.Put(models.Session{MessageID: 1})

	j := NewJanitor(10*time.Millisecond, zap.NewNop(), sessions)
	j.Start()
	defer j.Stop()

	assert.Eventually(t, func() bool {
		return sessions.Len() == 0
	}, time.Second, 5*time.Millisecond)
}
