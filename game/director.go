package game

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrStalled = errors.New("director has no move to make")

type Director interface {
	/**
	 * Initialize the director for a session
	 */
	Init(*Session)

	/**
	 * Decide on the next moves. The session is only read, never mutated.
	 */
	Act() []Move

	/**
	 * Stop acting
	 */
	End()
}

// Autoplay lets director play the loop's session until the game ends,
// pausing delay between moves. Directors only see the session from inside
// the loop goroutine.
func Autoplay(ctx context.Context, loop *Loop, director Director, delay time.Duration) (Outcome, error) {
	if err := loop.Do(ctx, director.Init); err != nil {
		return Ongoing, err
	}
	defer director.End()

	for {
		var moves []Move
		outcome := Ongoing
		if err := loop.Do(ctx, func(session *Session) {
			if outcome = session.Outcome(); outcome == Ongoing {
				moves = director.Act()
			}
		}); err != nil {
			return outcome, err
		}
		if outcome != Ongoing {
			return outcome, nil
		}
		if len(moves) == 0 {
			return outcome, ErrStalled
		}

		for _, move := range moves {
			log.WithFields(logrus.Fields{
				"action": move.Action,
				"cell":   move.Cell,
			}).Debug("director move")

			outcome, err := loop.Submit(ctx, move)
			if errors.Is(err, ErrCellRevealed) {
				// uncovered earlier in the same batch
				continue
			}
			if err != nil {
				return outcome, err
			}
			if outcome != Ongoing {
				return outcome, nil
			}

			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return outcome, ctx.Err()
				}
			}
		}
	}
}
