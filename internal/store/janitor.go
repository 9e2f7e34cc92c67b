package store

import (
	"time"

	"go.uber.org/zap"
)

// Clearable is any store the janitor can wipe.
type Clearable interface {
	Clear()
	Len() int
}

// Janitor periodically wipes the ephemeral stores in full. It is a coarse
// safety valve against unbounded growth from abandoned flows, not a TTL
// mechanism: every entry goes, however fresh.
type Janitor struct {
	interval time.Duration
	stores   []Clearable
	logger   *zap.Logger
	done     chan struct{}
}

func NewJanitor(interval time.Duration, logger *zap.Logger, stores ...Clearable) *Janitor {
	return &Janitor{
		interval: interval,
		stores:   stores,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called.
func (j *Janitor) Start() {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.done:
				return
			}
		}
	}()
}

// Sweep clears every store once. Clearing empty stores is a no-op.
func (j *Janitor) Sweep() {
	dropped := 0
	for _, s := range j.stores {
		dropped += s.Len()
		s.Clear()
	}
	j.logger.Info("storage cleaned", zap.Int("dropped", dropped))
}

// Stop terminates the sweep loop. Safe to call once.
func (j *Janitor) Stop() {
	close(j.done)
}
