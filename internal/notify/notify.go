// Package notify polls the notification feed and surfaces new entries
// as bus events and optional desktop toasts. The server exposes no push
// channel, so polling is the only delivery path.
package notify

import (
	"context"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/cloudbox/cloudbox-cli/internal/api"
	"github.com/cloudbox/cloudbox-cli/internal/events"
	"github.com/cloudbox/cloudbox-cli/internal/logging"
	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// Poller periodically fetches the feed and reports entries it has not
// seen before. Not safe for concurrent Run calls.
type Poller struct {
	client   *api.NotificationsClient
	bus      *events.EventBus
	logger   *logging.Logger
	interval time.Duration
	toasts   bool

	seen   map[string]bool
	primed bool
}

// NewPoller creates a poller. When toasts is true, each new entry also
// raises a desktop notification. The bus and logger may be nil.
func NewPoller(client *api.NotificationsClient, bus *events.EventBus, logger *logging.Logger, interval time.Duration, toasts bool) *Poller {
	return &Poller{
		client:   client,
		bus:      bus,
		logger:   logger,
		interval: interval,
		toasts:   toasts,
		seen:     make(map[string]bool),
	}
}

// Run polls until the context is cancelled or the session is
// invalidated. The first poll only primes the seen set, so entries
// predating the watch are not replayed. Fetch errors are logged and the
// next tick tries again.
func (p *Poller) Run(ctx context.Context) error {
	invalidated := p.subscribeInvalidation()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if err := p.poll(ctx); err != nil && p.logger != nil {
		p.logger.Warn().Err(err).Msg("notification poll failed")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-invalidated:
			if p.logger != nil {
				p.logger.Debug().Msg("session invalidated, notification poller stopping")
			}
			return nil
		case <-ticker.C:
			if err := p.poll(ctx); err != nil && p.logger != nil {
				p.logger.Warn().Err(err).Msg("notification poll failed")
			}
		}
	}
}

func (p *Poller) subscribeInvalidation() <-chan events.Event {
	if p.bus == nil {
		ch := make(chan events.Event)
		return ch
	}
	return p.bus.Subscribe(events.EventSessionInvalidated)
}

func (p *Poller) poll(ctx context.Context) error {
	entries, err := p.client.List(ctx)
	if err != nil {
		return err
	}

	if !p.primed {
		for _, n := range entries {
			p.seen[n.ID] = true
		}
		p.primed = true
		return nil
	}

	for _, n := range entries {
		if p.seen[n.ID] {
			continue
		}
		p.seen[n.ID] = true
		p.report(n)
	}
	return nil
}

func (p *Poller) report(n models.Notification) {
	if p.bus != nil {
		p.bus.Publish(&events.NotificationEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventNotification, Time: time.Now()},
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Kind:      n.Type,
		})
	}
	if p.toasts {
		if err := beeep.Notify(n.Title, n.Message, ""); err != nil && p.logger != nil {
			p.logger.Debug().Err(err).Msg("desktop notification failed")
		}
	}
}
