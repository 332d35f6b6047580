package service

import (
	"context"
	"time"

	"checkout-bridge/internal/core/domain"
	"checkout-bridge/internal/core/ports"

	"github.com/rs/zerolog"
)

// Outcome is the terminal state of one webhook dispatch. The HTTP
// acknowledgment has already been sent when any of these is reached.
type Outcome string

const (
	OutcomeSkipped         Outcome = "SKIPPED"          // no actionable order yet
	OutcomeAlreadyNotified Outcome = "ALREADY_NOTIFIED" // duplicate delivery
	OutcomeNotified        Outcome = "NOTIFIED"         // emails attempted, order claimed
	OutcomeFailed          Outcome = "FAILED"           // resolver or dedup store error
)

// Dispatcher drives the post-acknowledgment phase of webhook handling:
// resolve, claim, notify. It never returns an error; everything that goes
// wrong after the 200 is logged and terminates the dispatch.
type Dispatcher struct {
	resolver *OrderResolver
	dedup    ports.DedupStore
	notifier ports.Notifier
	emails   *EmailComposer
	admin    string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewDispatcher creates a webhook dispatcher. admin is the administrator
// notification address; timeout bounds one whole dispatch.
func NewDispatcher(
	resolver *OrderResolver,
	dedup ports.DedupStore,
	notifier ports.Notifier,
	emails *EmailComposer,
	admin string,
	timeout time.Duration,
	log zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		dedup:    dedup,
		notifier: notifier,
		emails:   emails,
		admin:    admin,
		timeout:  timeout,
		log:      log,
	}
}

// DispatchAsync runs Dispatch on a detached goroutine with its own error
// boundary. Called by the webhook handler after the 200 has been written;
// nothing here can affect the already-sent response.
func (d *Dispatcher) DispatchAsync(n domain.Notification) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Interface("panic", r).Str("reference", n.ReferenceID).Msg("webhook dispatch panicked")
			}
		}()
		d.Dispatch(context.Background(), n)
	}()
}

// Dispatch processes one delivery to its terminal state. Safe to call
// concurrently for duplicate deliveries of the same order: the dedup claim
// admits exactly one sender.
func (d *Dispatcher) Dispatch(ctx context.Context, n domain.Notification) Outcome {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	log := d.log.With().Str("kind", string(n.Kind)).Str("reference", n.ReferenceID).Logger()

	order, err := d.resolver.Resolve(ctx, n)
	if err != nil {
		log.Error().Err(err).Msg("order resolution failed")
		return OutcomeFailed
	}
	if order == nil || !order.IsApproved() {
		log.Debug().Msg("delivery skipped, no approved order")
		return OutcomeSkipped
	}

	// Atomic check-then-act: the claim is taken before any email goes out,
	// and a later mail failure does not give it back. Duplicate deliveries
	// racing here lose the claim and stop.
	claimed, err := d.dedup.Claim(ctx, order.ID)
	if err != nil {
		// At-least-once beats silence: proceed as if unclaimed.
		log.Warn().Err(err).Str("order_id", order.ID).Msg("dedup store error, proceeding with notification")
	} else if !claimed {
		log.Info().Str("order_id", order.ID).Msg("order already notified, duplicate delivery dropped")
		return OutcomeAlreadyNotified
	}

	d.notify(ctx, log, order)
	return OutcomeNotified
}

// notify sends the admin email, then the buyer email when an address is
// known. Failed sends are logged and permanently lost; there is no retry.
func (d *Dispatcher) notify(ctx context.Context, log zerolog.Logger, order *domain.Order) {
	admin, err := d.emails.AdminNotification(order)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to compose admin notification")
		return
	}
	admin.To = []string{d.admin}
	if err := d.notifier.Send(ctx, admin); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("admin notification lost")
		return
	}
	log.Info().Str("order_id", order.ID).Str("total", order.Total().String()).Msg("admin notified")

	if order.Buyer.Email == "" {
		log.Debug().Str("order_id", order.ID).Msg("no buyer email, confirmation skipped")
		return
	}
	buyer, err := d.emails.BuyerConfirmation(order)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to compose buyer confirmation")
		return
	}
	buyer.To = []string{order.Buyer.Email}
	if err := d.notifier.Send(ctx, buyer); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("buyer confirmation lost")
		return
	}
	log.Info().Str("order_id", order.ID).Str("buyer", order.Buyer.Email).Msg("buyer notified")
}
