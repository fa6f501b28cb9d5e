// Package printer dispatches Kitchen Order Tickets. Jobs go to a print
// broker queue when one is configured; without a broker the ticket is
// logged, which is enough for development and for venues without
// physical KOT printers.
package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
)

// TicketLine is one printed line of a KOT.
type TicketLine struct {
	Name                string `json:"name"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// Ticket is a print job routed to a preparation station.
type Ticket struct {
	OrderID      string       `json:"orderId"`
	TableNumber  int          `json:"tableNumber"`
	CustomerName string       `json:"customerName,omitempty"`
	Section      string       `json:"section,omitempty"` // empty prints all sections
	Lines        []TicketLine `json:"lines"`
	PrintedAt    time.Time    `json:"printedAt"`
}

// Dispatcher publishes tickets to the print queue.
type Dispatcher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewDispatcher connects to the print broker. An empty URL yields a
// log-only dispatcher.
func NewDispatcher(amqpURL, queue string) (*Dispatcher, error) {
	d := &Dispatcher{queue: queue}
	if amqpURL == "" {
		return d, nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to print broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening broker channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring print queue: %w", err)
	}

	d.conn = conn
	d.ch = ch
	return d, nil
}

// Close releases the broker connection.
func (d *Dispatcher) Close() {
	if d.ch != nil {
		d.ch.Close()
	}
	if d.conn != nil {
		d.conn.Close()
	}
}

// PrintKOT builds a ticket for the order, optionally filtered to one
// menu section, and dispatches it. Returns the number of lines printed.
func (d *Dispatcher) PrintKOT(ctx context.Context, order *models.Order, section string, now time.Time) (int, error) {
	ticket := Ticket{
		OrderID:      order.ID,
		TableNumber:  order.TableNumber,
		CustomerName: order.CustomerName,
		Section:      section,
		PrintedAt:    now,
	}
	for _, item := range order.Items {
		if section != "" && item.MenuItem.Section != section {
			continue
		}
		ticket.Lines = append(ticket.Lines, TicketLine{
			Name:                item.MenuItem.Name,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	if len(ticket.Lines) == 0 {
		return 0, nil
	}

	if d.ch == nil {
		log.Printf("KOT table %d order %s: %d lines (no print broker, logged only)",
			ticket.TableNumber, ticket.OrderID, len(ticket.Lines))
		return len(ticket.Lines), nil
	}

	body, err := json.Marshal(ticket)
	if err != nil {
		return 0, fmt.Errorf("encoding ticket: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = d.ch.PublishWithContext(pubCtx, "", d.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return 0, fmt.Errorf("publishing ticket: %w", err)
	}
	return len(ticket.Lines), nil
}
