package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Due-date and dunning logic never reads the
// wall clock directly so that date-driven transitions stay testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)
