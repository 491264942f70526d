package repo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Listener turns Postgres NOTIFY events on the holiday change channel into
// in-process subscriptions. ReplaceForCountry publishes the country code of
// every cache write; subscribers receive it and re-run their query, which is
// what makes the store's upcoming-holidays read a live query.
//
// One Listener per process is enough — it holds a single dedicated
// connection and fans notifications out to all subscribers.
type Listener struct {
	pool *pgxpool.Pool
	log  *slog.Logger

	mu   sync.Mutex
	subs map[chan string]struct{}
}

// NewListener constructs a Listener. Call Run to start receiving.
func NewListener(pool *pgxpool.Pool, log *slog.Logger) *Listener {
	return &Listener{
		pool: pool,
		log:  log,
		subs: make(map[chan string]struct{}),
	}
}

// Run blocks listening for notifications until ctx is cancelled.
// Connection failures are retried with a flat backoff; notifications issued
// while the connection is down are lost, which subscribers must tolerate
// (they re-query on the next notification rather than replaying history).
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.log.WarnContext(ctx, "holiday change listener lost connection", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// listen holds one connection on LISTEN until it fails or ctx is cancelled.
func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.broadcast(n.Payload)
	}
}

// Subscribe registers a channel receiving the country code of every
// subsequent cache write. The channel is buffered; a subscriber that falls
// behind drops notifications rather than blocking the listener.
func (l *Listener) Subscribe() chan string {
	ch := make(chan string, 16)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (l *Listener) Unsubscribe(ch chan string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.subs[ch]; !ok {
		return
	}
	delete(l.subs, ch)
	close(ch)
}

// broadcast delivers a country code to every subscriber. Sends happen under
// the lock so a concurrent Unsubscribe cannot close a channel mid-send.
func (l *Listener) broadcast(country string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ch := range l.subs {
		select {
		case ch <- country:
		default:
		}
	}
}
