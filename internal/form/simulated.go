package form

import (
	"context"
	"time"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
)

// DefaultSimulatedDelay is how long Simulated pretends to work.
const DefaultSimulatedDelay = 2000 * time.Millisecond

// Simulated stands in for the generation function when none is configured.
// It waits and then succeeds without producing a file.
type Simulated struct {
	Delay time.Duration
}

func (s Simulated) Generate(ctx context.Context, _ models.ContractForm) (*models.Archive, error) {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultSimulatedDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
