package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"movie-booking/internal/logger"
	"movie-booking/internal/models"
)

const TopicPaymentConfirmations = "payment-confirmations"

// ConfirmationHandler applies one payment confirmation.
type ConfirmationHandler func(*models.PaymentConfirmation) error

type Consumer struct {
	consumer sarama.ConsumerGroup
	topics   []string
	log      *logger.Logger
}

func NewConsumer(brokers []string, groupID string, log *logger.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		consumer: consumer,
		topics:   []string{TopicPaymentConfirmations},
		log:      log,
	}, nil
}

// ConsumeConfirmations blocks until ctx is cancelled or the group fails.
func (c *Consumer) ConsumeConfirmations(ctx context.Context, handler ConfirmationHandler) error {
	consumerHandler := &ConfirmationConsumerHandler{Handler: handler, Log: c.log}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.consumer.Consume(ctx, c.topics, consumerHandler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return nil
				}
				c.log.Error("KAFKA", fmt.Sprintf("Error consuming messages: %v", err))
				return err
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumer.Close()
}

// ConfirmationConsumerHandler is the sarama group handler for payment
// confirmations. Bad messages are logged and marked so they are not redelivered.
type ConfirmationConsumerHandler struct {
	Handler ConfirmationHandler
	Log     *logger.Logger
}

func (h *ConfirmationConsumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *ConfirmationConsumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ConfirmationConsumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.handleMessage(message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *ConfirmationConsumerHandler) handleMessage(message *sarama.ConsumerMessage) {
	var confirmation models.PaymentConfirmation
	if err := json.Unmarshal(message.Value, &confirmation); err != nil {
		h.Log.Warn("KAFKA", fmt.Sprintf("Failed to unmarshal confirmation at offset %d: %v", message.Offset, err))
		return
	}
	if confirmation.BookingID == 0 {
		h.Log.Warn("KAFKA", fmt.Sprintf("Confirmation at offset %d has no booking_id", message.Offset))
		return
	}

	h.Log.LogKafka("CONFIRMATION", message.Topic, fmt.Sprintf("Booking %d status %s", confirmation.BookingID, confirmation.Status))
	if err := h.Handler(&confirmation); err != nil {
		h.Log.Error("KAFKA", fmt.Sprintf("Failed to apply confirmation for booking %d: %v", confirmation.BookingID, err))
	}
}
