package scatter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TypingSession keeps a channel's typing indicator alive by re-sending
// the typing signal on a fixed interval until released. The platform
// expires indicators on its own, so Release sends no clearing signal.
//
// Always pair with defer so the keep-alive stops on every exit path:
//
//	ts := client.Typing(channelID)
//	defer ts.Release()
type TypingSession struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Typing sends an immediate typing indicator for the channel and
// returns a session that repeats it until released. Sessions for
// different channels are independent.
func (c *Client) Typing(channelID string) *TypingSession {
	return newTypingSession(c.cfg.Typing.Interval, c.logger, func() error {
		return c.SendTyping(channelID)
	})
}

func newTypingSession(interval time.Duration, logger *slog.Logger, send func() error) *TypingSession {
	ticker := time.NewTicker(interval)
	return startTypingSession(ticker.C, ticker.Stop, logger, send)
}

// startTypingSession sends the immediate indicator and repeats it on
// every tick until released. The tick source is injected so the repeat
// schedule can be driven deterministically.
func startTypingSession(tick <-chan time.Time, stop func(), logger *slog.Logger, send func() error) *TypingSession {
	if err := send(); err != nil {
		logger.Warn("typing indicator failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ts := &TypingSession{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(ts.done)
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick:
				if err := send(); err != nil {
					logger.Warn("typing keep-alive failed", "error", err)
				}
			}
		}
	}()

	return ts
}

// Release cancels the repeat schedule and waits for the background
// task to exit. Safe to call more than once.
func (ts *TypingSession) Release() {
	ts.once.Do(func() {
		ts.cancel()
		<-ts.done
	})
}
