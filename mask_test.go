package wsroute

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// probeGen is an instrumented generator that detects concurrent use of a
// single instance.
type probeGen struct {
	inUse    atomic.Int32
	overlaps *atomic.Int32
}

func (g *probeGen) fill(p []byte) {
	if !g.inUse.CompareAndSwap(0, 1) {
		g.overlaps.Add(1)
	}
	time.Sleep(time.Microsecond)
	for i := range p {
		p[i] = 0xA5
	}
	g.inUse.Store(0)
}

func TestMaskSource_Next(t *testing.T) {
	t.Run("returns four bytes of key material", func(t *testing.T) {
		s := NewMaskSource()
		seen := map[[4]byte]bool{}
		for i := 0; i < 32; i++ {
			seen[s.Next()] = true
		}
		// 32 independent 4-byte keys colliding down to one value means the
		// generator is broken, not unlucky.
		if len(seen) < 2 {
			t.Errorf("got %d distinct keys out of 32 draws", len(seen))
		}
	})

	t.Run("sequential callers reuse one generator", func(t *testing.T) {
		var built atomic.Int32
		var overlaps atomic.Int32
		s := NewMaskSource()
		s.newGenerator = func() masker {
			built.Add(1)
			return &probeGen{overlaps: &overlaps}
		}

		for i := 0; i < 10; i++ {
			s.Next()
		}
		if n := built.Load(); n != 1 {
			t.Errorf("built %d generators, want 1", n)
		}
	})

	t.Run("no two concurrent callers share a generator", func(t *testing.T) {
		var built atomic.Int32
		var overlaps atomic.Int32
		s := NewMaskSource()
		s.newGenerator = func() masker {
			built.Add(1)
			return &probeGen{overlaps: &overlaps}
		}

		const callers = 16
		const perCaller = 200

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perCaller; j++ {
					s.Next()
				}
			}()
		}
		wg.Wait()

		if n := overlaps.Load(); n != 0 {
			t.Errorf("%d overlapping uses of a generator instance", n)
		}
		if n := built.Load(); n > callers {
			t.Errorf("built %d generators for %d concurrent callers", n, callers)
		}
	})
}

func TestMaskGenDegraded(t *testing.T) {
	// A generator that failed seeding reads the system source directly.
	g := &maskGen{}
	var key [4]byte
	g.fill(key[:])

	var second [4]byte
	g.fill(second[:])
	if key == second {
		t.Error("degraded generator returned identical consecutive keys")
	}
}

func TestNextMask(t *testing.T) {
	a := NextMask()
	b := NextMask()
	if a == b {
		t.Error("consecutive default-source keys identical")
	}
}
