package magicroi

import (
	"context"
	"fmt"
)

// checkEvery is how many loop iterations pass between cancellation checks.
const checkEvery = 1024

// Grow returns the maximal 4-connected region containing seed whose samples
// lie inside window.
//
// The search is depth first with an explicit stack of accepted moves: from
// the current cell it tries right, left, up, down; on success it steps into
// the new cell and restarts at right, on a dead end it pops the last move,
// steps back, and resumes with the direction after the popped one.
//
// A seed whose own value is outside window yields an empty mask and no error.
func Grow(ctx context.Context, g Grid, seed Index, window Window) (*Mask, error) {
	ext := g.Extent()
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	if !ext.Contains(seed.X, seed.Y) {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrSeedOutOfBounds, seed.X, seed.Y)
	}

	mask := NewMask(ext)
	if !window.Contains(g.ScalarAt(seed.X, seed.Y, seed.Z)) {
		return mask, nil
	}

	accept := func(c cell) bool {
		if !ext.Contains(c.x, c.y) || mask.At(c.x, c.y) {
			return false
		}
		return window.Contains(g.ScalarAt(c.x, c.y, seed.Z))
	}

	pos := cell{seed.X, seed.Y}
	mask.Set(pos.x, pos.y)

	var stack []move
	next := moveRight
	for iter := 1; ; iter++ {
		if iter%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("region growing interrupted: %w", err)
			}
		}

		advanced := false
		for ; next < moveCount; next++ {
			c, err := next.apply(pos)
			if err != nil {
				return nil, err
			}
			if accept(c) {
				mask.Set(c.x, c.y)
				stack = append(stack, next)
				pos = c
				advanced = true
				break
			}
		}
		if advanced {
			next = moveRight
			continue
		}

		if len(stack) == 0 {
			break
		}
		last := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		back, err := last.inverse()
		if err != nil {
			return nil, err
		}
		if pos, err = back.apply(pos); err != nil {
			return nil, err
		}
		next = last + 1
	}

	return mask, nil
}
