package ws

import (
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/registro-leads/internal/broker"
)

// Forward repassa ao feed as mensagens da fila de leads até o canal fechar.
// Mensagens que não são um LeadEvent válido são descartadas.
func Forward(f *Feed, deliveries <-chan amqp.Delivery, log *slog.Logger) {
	for d := range deliveries {
		var ev broker.LeadEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil || ev.Action == "" {
			log.Warn("lead_event_discarded", "err", err, "bytes", len(d.Body))
			continue
		}
		f.Publish(d.Body)
	}
	log.Warn("deliveries_channel_closed")
}

// StartConsumer declara a fila de leads e começa a consumir.
func StartConsumer(uri, queue string, prefetch int, log *slog.Logger) (*amqp.Connection, *amqp.Channel, <-chan amqp.Delivery, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, err
	}

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, nil, err
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, nil, err
	}

	deliveries, err := ch.Consume(queue, "leads-feed", true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, nil, err
	}
	log.Info("rabbit_consumer_started", "queue", queue, "prefetch", prefetch)
	return conn, ch, deliveries, nil
}
