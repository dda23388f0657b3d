package muteService

import (
	"sync"
	"time"
)

// Scheduler owns every pending unmute timer, keyed by (user, guild). It
// keeps at most one timer per pair: scheduling again replaces the previous
// timer instead of stacking. Pairs whose expiry failed on the platform side
// are marked stuck so the reconciliation sweep does not retry them; a
// manual unmute clears the mark.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	stuck  map[string]struct{}

	pairMu sync.Mutex
	pairs  map[string]*sync.Mutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
		stuck:  make(map[string]struct{}),
		pairs:  make(map[string]*sync.Mutex),
	}
}

func pairKey(userID, guildID string) string {
	return userID + ":" + guildID
}

// lockPair serializes all mute mutations for one (user, guild) pair,
// closing the check-then-insert race between concurrent mutes and the race
// between a firing timer and a manual unmute.
func (sc *Scheduler) lockPair(key string) func() {
	sc.pairMu.Lock()
	lock, ok := sc.pairs[key]
	if !ok {
		lock = &sync.Mutex{}
		sc.pairs[key] = lock
	}
	sc.pairMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// schedule registers a one-shot callback, replacing any pending timer for
// the same pair.
func (sc *Scheduler) schedule(key string, d time.Duration, fn func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if existing, ok := sc.timers[key]; ok {
		existing.Stop()
	}
	sc.timers[key] = time.AfterFunc(d, fn)
}

// cancel stops and removes the pending timer for the pair, reporting
// whether one existed.
func (sc *Scheduler) cancel(key string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	timer, ok := sc.timers[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(sc.timers, key)
	return true
}

// discard removes the timer entry without stopping it, for use from inside
// a fired callback.
func (sc *Scheduler) discard(key string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.timers, key)
}

// Pending reports whether an unmute is scheduled for the pair.
func (sc *Scheduler) Pending(userID, guildID string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	_, ok := sc.timers[pairKey(userID, guildID)]
	return ok
}

func (sc *Scheduler) markStuck(key string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.stuck[key] = struct{}{}
}

func (sc *Scheduler) clearStuck(key string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.stuck, key)
}

// Stuck reports whether the pair's last expiry failed and now needs a
// manual unmute.
func (sc *Scheduler) Stuck(userID, guildID string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	_, ok := sc.stuck[pairKey(userID, guildID)]
	return ok
}

// Stop cancels every pending timer. Used on shutdown; active mute rows stay
// in the store and are picked up again by startup reconciliation.
func (sc *Scheduler) Stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for key, timer := range sc.timers {
		timer.Stop()
		delete(sc.timers, key)
	}
}
