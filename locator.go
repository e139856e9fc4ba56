package schoolfinder

import (
	"context"

	"github.com/poiesic/schoolfinder/core"
)

// Locator acquires a one-shot device position.
// Implementations must honor ctx cancellation.
type Locator interface {
	Locate(ctx context.Context) (core.Coordinate, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (core.Coordinate, error)

// Locate implements Locator.
func (f LocatorFunc) Locate(ctx context.Context) (core.Coordinate, error) {
	return f(ctx)
}

// StaticLocator always reports the same position.
func StaticLocator(c core.Coordinate) Locator {
	return LocatorFunc(func(ctx context.Context) (core.Coordinate, error) {
		if err := ctx.Err(); err != nil {
			return core.Coordinate{}, err
		}
		return c, nil
	})
}
