package suggestion

import (
	"hash/fnv"
	"time"
)

// splitmix64 is a small deterministic generator; its output for a given seed
// does not depend on the Go release.
type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// hourSeed is stable for one session within one UTC clock hour.
func hourSeed(sessionID string, now time.Time) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sessionID))
	_, _ = h.Write([]byte("|"))
	_, _ = h.Write([]byte(now.UTC().Truncate(time.Hour).Format("2006-01-02-15")))
	return h.Sum64()
}

// seededShuffle is a Fisher-Yates shuffle driven by splitmix64.
func seededShuffle[T any](items []T, seed uint64) {
	rng := &splitmix64{state: seed}
	for i := len(items) - 1; i > 0; i-- {
		j := int(rng.next() % uint64(i+1))
		items[i], items[j] = items[j], items[i]
	}
}
