package wsroute

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
	"sync"

	"github.com/eapache/queue"
)

// masker fills a byte slice with random data. Implementations are not safe
// for concurrent use; MaskSource guarantees exclusive use via checkout.
type masker interface {
	fill(p []byte)
}

// MaskOption configures a MaskSource.
type MaskOption func(*MaskSource)

// WithMaskFallback adds a hook called when a generator cannot be seeded from
// the system entropy source and degrades to reading it directly. Key
// generation still works; the hook exists so callers can log the
// degradation.
func WithMaskFallback(fn func(error)) MaskOption {
	return func(s *MaskSource) {
		s.onFallback = fn
	}
}

// MaskSource produces 4-byte masking keys for outbound client frames. It is
// safe for unbounded concurrent callers.
//
// Generators are not safe for concurrent use, so each caller checks one out
// of a queue, uses it exclusively, and returns it. The lock covers only the
// checkout and return, never key generation. A caller finding the queue
// empty constructs a fresh generator, so acquisition never blocks on other
// callers; the queue grows to the peak number of concurrent callers and is
// never shrunk. In practice it stays far smaller than that peak.
//
// The preferred generator is a ChaCha8 stream seeded once from the system
// entropy source: seeding is the only expensive step, which is the entire
// reason generators are pooled rather than rebuilt per key. If seeding
// fails, the generator falls back to reading the system source directly for
// every key. That is slower but fully functional, and it is reported only
// through WithMaskFallback.
type MaskSource struct {
	mu         sync.Mutex
	generators *queue.Queue
	onFallback func(error)

	// newGenerator is swappable for tests that need to observe checkout.
	newGenerator func() masker
}

// NewMaskSource creates a MaskSource with an empty generator pool.
func NewMaskSource(opts ...MaskOption) *MaskSource {
	s := &MaskSource{
		generators: queue.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newGenerator == nil {
		s.newGenerator = func() masker { return newMaskGen(s.onFallback) }
	}
	return s
}

// Next returns a fresh 4-byte masking key.
func (s *MaskSource) Next() [4]byte {
	g := s.acquire()
	if g == nil {
		g = s.newGenerator()
	}

	var key [4]byte
	g.fill(key[:])

	s.release(g)
	return key
}

// acquire pops a generator, or returns nil when the pool is empty.
func (s *MaskSource) acquire() masker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generators.Length() == 0 {
		return nil
	}
	return s.generators.Remove().(masker)
}

func (s *MaskSource) release(g masker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generators.Add(g)
}

// maskGen is a single pooled generator. prng is nil in degraded mode.
type maskGen struct {
	prng *rand.ChaCha8
}

func newMaskGen(notify func(error)) *maskGen {
	var seed [32]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		if notify != nil {
			notify(err)
		}
		return &maskGen{}
	}
	return &maskGen{prng: rand.NewChaCha8(seed)}
}

func (g *maskGen) fill(p []byte) {
	if g.prng != nil {
		g.prng.Read(p)
		return
	}
	// Degraded mode. crypto/rand.Read does not fail on supported platforms.
	cryptorand.Read(p)
}

var defaultMaskSource = NewMaskSource()

// NextMask returns a masking key from the process-wide default source.
func NextMask() [4]byte {
	return defaultMaskSource.Next()
}
