package game

import (
	"context"
	"sync"
	"time"
)

// Loop owns a Session in a single goroutine. Moves, queries and clock ticks
// are all delivered to it serially, so a tick never races a reveal.
type Loop struct {
	session *Session

	requests chan request
	ticks    <-chan time.Time
	ticker   *time.Ticker

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

type request struct {
	fn   func(*Session)
	done chan struct{}
}

// NewLoop starts serving session, ticking its clock every tickInterval
func NewLoop(session *Session, tickInterval time.Duration) *Loop {
	ticker := time.NewTicker(tickInterval)
	loop := newLoop(session, ticker.C)
	loop.ticker = ticker
	go loop.run()
	return loop
}

func newLoop(session *Session, ticks <-chan time.Time) *Loop {
	return &Loop{
		session:  session,
		requests: make(chan request),
		ticks:    ticks,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (loop *Loop) run() {
	defer close(loop.stopped)

	for {
		select {
		case <-loop.done:
			return
		case <-loop.ticks:
			loop.session.OnTick()
		case req := <-loop.requests:
			req.fn(loop.session)
			close(req.done)
		}
	}
}

// Do runs fn against the session inside the loop goroutine and waits for it.
// fn must not retain the session.
func (loop *Loop) Do(ctx context.Context, fn func(*Session)) error {
	req := request{fn: fn, done: make(chan struct{})}

	select {
	case loop.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-loop.stopped:
		return ErrLoopStopped
	}

	<-req.done
	return nil
}

func (loop *Loop) Submit(ctx context.Context, move Move) (Outcome, error) {
	outcome := Ongoing
	var moveErr error
	if err := loop.Do(ctx, func(session *Session) {
		outcome, moveErr = session.Apply(move)
	}); err != nil {
		return outcome, err
	}
	return outcome, moveErr
}

// Stop ends the loop goroutine; the session is abandoned as-is
func (loop *Loop) Stop() {
	loop.stopOnce.Do(func() {
		close(loop.done)
		<-loop.stopped
		if loop.ticker != nil {
			loop.ticker.Stop()
		}
	})
}
