// Package notify decouples investor notifications from the lead pipeline.
// The pipeline enqueues match events; a consumer goroutine delivers them.
// Delivery is fire-and-forget: no retries, no delivery guarantee, and a
// full queue drops the event rather than blocking the pipeline.
package notify

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/propsignal/leadmarket/internal/logger"
)

// Notification is one investor match event.
type Notification struct {
	InvestorID    string          `json:"investor_id"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	PackageID     string          `json:"package_id"`
	LeadTier      string          `json:"lead_tier"`
	Price         decimal.Decimal `json:"price"`
	DistressScore float64         `json:"distress_score"`
}

// Deliverer sends one notification to its investor.
type Deliverer interface {
	Deliver(n Notification)
}

// LogDeliverer writes notifications to the service log. It stands in for a
// real email/SMS provider.
type LogDeliverer struct {
	log *logger.Logger
}

// NewLogDeliverer creates a log-backed deliverer.
func NewLogDeliverer(log *logger.Logger) *LogDeliverer {
	return &LogDeliverer{log: log}
}

// Deliver logs the email notification, and the SMS when a phone is present.
func (d *LogDeliverer) Deliver(n Notification) {
	fields := map[string]interface{}{
		"investor_id":    n.InvestorID,
		"email":          n.Email,
		"package_id":     n.PackageID,
		"lead_tier":      n.LeadTier,
		"price":          n.Price.String(),
		"distress_score": n.DistressScore,
	}
	d.log.Info("Email notification sent", fields)
	if n.Phone != "" {
		fields["phone"] = n.Phone
		d.log.Info("SMS notification sent", fields)
	}
}

// Queue is a buffered producer/consumer notification channel.
type Queue struct {
	ch        chan Notification
	deliverer Deliverer
	log       *logger.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewQueue creates a queue delivering through the given deliverer.
func NewQueue(buffer int, deliverer Deliverer, log *logger.Logger) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	return &Queue{
		ch:        make(chan Notification, buffer),
		deliverer: deliverer,
		log:       log,
	}
}

// Start launches the consumer goroutine. It runs until Close is called or
// the context is cancelled.
func (q *Queue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case n, ok := <-q.ch:
				if !ok {
					return
				}
				q.deliverer.Deliver(n)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Enqueue submits a notification without blocking. Returns false when the
// queue is full and the event was dropped.
func (q *Queue) Enqueue(n Notification) bool {
	select {
	case q.ch <- n:
		return true
	default:
		q.log.Warn("Notification queue full, dropping event", map[string]interface{}{
			"investor_id": n.InvestorID,
			"package_id":  n.PackageID,
		})
		return false
	}
}

// Close stops intake and waits for the consumer to drain in-flight events.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.ch)
	})
	q.wg.Wait()
}
