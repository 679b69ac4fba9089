package pipeline

import (
	"time"

	"savesync/internal/model"
)

// Coalesce collapses a burst of file events into a single trigger once the
// directory has been quiet for delay. A game writing a save touches the
// file several times in quick succession; one reconciliation pass per
// burst is enough.
func Coalesce(inCh <-chan model.FileEvent, delay time.Duration) <-chan struct{} {
	outCh := make(chan struct{}, 1)

	go func() {
		defer close(outCh)

		var timer *time.Timer
		var timerCh <-chan time.Time

		for {
			select {
			case _, ok := <-inCh:
				if !ok {
					if timerCh != nil {
						fire(outCh)
					}
					return
				}

				if timer == nil {
					timer = time.NewTimer(delay)
				} else {
					timer.Stop()
					timer.Reset(delay)
				}
				timerCh = timer.C

			case <-timerCh:
				timerCh = nil
				fire(outCh)
			}
		}
	}()

	return outCh
}

func fire(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
		// a trigger is already pending, one pass covers both
	}
}
