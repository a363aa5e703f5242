package worker

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff: attempt=0 => 2s, attempt=1 => 4s, capped at 5m.
func ExponentialBackoff(attempt int) time.Duration {
	base := 2 * time.Second

	capDelay := 5 * time.Minute

	multiple := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(base) * multiple)

	if delay > capDelay {
		delay = capDelay
	}

	// small jitter (0-250ms) so replicas do not sweep in lockstep
	delay += time.Duration(rand.Intn(250)) * time.Millisecond
	return delay
}
