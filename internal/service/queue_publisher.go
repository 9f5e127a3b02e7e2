// Package service holds side effects triggered after a seat map save:
// publishing the seatmap.saved event and dropping the cached public map.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hall-config-editor/internal/editor"
	"github.com/iliyamo/hall-config-editor/internal/queue"
)

// Publisher sends seatmap.saved events to RabbitMQ.  Failures are logged
// and returned; they never affect the save that triggered them.
type Publisher struct {
	URL string
}

// Publish sends ev to the seatmap.saved queue as a persistent message.
func (p Publisher) Publish(ctx context.Context, ev queue.SeatMapSavedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.SeatMapSavedQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.SeatMapSavedQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// Invalidator drops a cached public seat map.
type Invalidator interface {
	InvalidateSeatMap(ctx context.Context, hallID uint64) error
}

// SavedNotifier fans a completed save out to the broker and the cache.
type SavedNotifier struct {
	Publisher interface {
		Publish(ctx context.Context, ev queue.SeatMapSavedEvent) error
	}
	Cache   Invalidator
	Timeout time.Duration

	// Async runs the side effects in a goroutine; tests turn it off.
	Async bool
}

// OnSaved matches session.SavedFunc.
func (n SavedNotifier) OnSaved(ownerID uint64, saved editor.Saved) {
	run := func() {
		timeout := n.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if n.Cache != nil {
			if err := n.Cache.InvalidateSeatMap(ctx, saved.HallID); err != nil {
				log.Printf("seatmap-cache: invalidate hall %d failed: %v", saved.HallID, err)
			}
		}
		if n.Publisher != nil {
			ev := queue.NewSeatMapSavedEvent(ownerID, saved.HallID, saved.Generation, saved.SeatCount, saved.ShiftCount)
			_ = n.Publisher.Publish(ctx, ev)
		}
	}
	if n.Async {
		go run()
		return
	}
	run()
}
