package muteService

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerFiresOnce(t *testing.T) {
	sc := NewScheduler()
	defer sc.Stop()

	var fired int32
	sc.schedule(pairKey("u1", "g1"), 10*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("Expected exactly one fire, got %d", got)
	}
}

func TestSchedulerReplaces(t *testing.T) {
	sc := NewScheduler()
	defer sc.Stop()

	var first, second int32
	key := pairKey("u1", "g1")
	sc.schedule(key, 20*time.Millisecond, func() { atomic.AddInt32(&first, 1) })
	sc.schedule(key, 20*time.Millisecond, func() { atomic.AddInt32(&second, 1) })

	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&first) != 0 {
		t.Error("Replaced timer must not fire")
	}
	if atomic.LoadInt32(&second) != 1 {
		t.Error("Replacement timer must fire")
	}
}

func TestSchedulerCancel(t *testing.T) {
	sc := NewScheduler()
	defer sc.Stop()

	var fired int32
	key := pairKey("u1", "g1")
	sc.schedule(key, 20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	if !sc.cancel(key) {
		t.Error("Expected cancel to report an existing timer")
	}
	if sc.cancel(key) {
		t.Error("Second cancel must report no timer")
	}

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("Cancelled timer must not fire")
	}
}

func TestSchedulerPending(t *testing.T) {
	sc := NewScheduler()
	defer sc.Stop()

	if sc.Pending("u1", "g1") {
		t.Error("Nothing scheduled yet")
	}
	sc.schedule(pairKey("u1", "g1"), time.Hour, func() {})
	if !sc.Pending("u1", "g1") {
		t.Error("Expected pending timer")
	}
	if sc.Pending("u2", "g1") {
		t.Error("Other pairs must not be pending")
	}
}

func TestSchedulerStuck(t *testing.T) {
	sc := NewScheduler()

	key := pairKey("u1", "g1")
	if sc.Stuck("u1", "g1") {
		t.Error("Fresh pair must not be stuck")
	}
	sc.markStuck(key)
	if !sc.Stuck("u1", "g1") {
		t.Error("Expected stuck after mark")
	}
	sc.clearStuck(key)
	if sc.Stuck("u1", "g1") {
		t.Error("Expected clear to remove the mark")
	}
}

func TestSchedulerStop(t *testing.T) {
	sc := NewScheduler()

	var fired int32
	sc.schedule(pairKey("u1", "g1"), 20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	sc.schedule(pairKey("u2", "g1"), 20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	sc.Stop()

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("Stop must cancel every pending timer")
	}
	if sc.Pending("u1", "g1") || sc.Pending("u2", "g1") {
		t.Error("No timers should remain after Stop")
	}
}
