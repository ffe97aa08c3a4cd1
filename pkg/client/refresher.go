package client

import (
	"context"
	"time"
)

// refresher periodically reissues the session token well before expiry so a
// long-lived client never hits a forced re-login. Its lifetime is owned by
// the session: created on login, stopped on logout. A failed refresh is
// retried on the next tick; the old token stays valid until its own expiry.
type refresher struct {
	client   *Client
	interval time.Duration
	done     chan struct{}
}

func newRefresher(client *Client, interval time.Duration) *refresher {
	return &refresher{
		client:   client,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (r *refresher) start() {
	go r.run()
}

func (r *refresher) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = r.client.Refresh(ctx)
			cancel()
		}
	}
}

func (r *refresher) stop() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}
