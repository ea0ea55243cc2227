package mykafka

import (
	"context"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"

	"github.com/kmazurov/order_service/internal/logging"
)

// Handler consumes one delivered message. A returned error is logged and the
// message is still committed: redelivery policy belongs to the broker, not
// to this loop.
type Handler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader  *kafka.Reader
	handler Handler
}

func NewConsumer(brokers []string, topic, groupID string, handler Handler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: r, handler: handler}
}

// Run blocks until ctx is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context) {
	l := logging.FromContext(ctx).With("consumer", c.reader.Config().Topic)
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			l.Error("consume_read_failed", "error", err)
			continue
		}

		if err := c.handler(ctx, msg); err != nil {
			l.Error("consume_handle_failed", "key", string(msg.Key), "error", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
