package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	appvaluation "main/internal/application/service/valuation"
	"main/internal/config"
	domain "main/internal/domain/entity/valuation"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer subscribes to the valuation requests exchange, computes each
// request, and persists the results via a buffered batch writer.
type Consumer struct {
	cfg     config.RabbitMQConfig
	service *appvaluation.Service
	logger  *logrus.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
	wg      sync.WaitGroup
	batcher *BatchWriter
}

// NewConsumer prepares a consumer for the given configuration.
func NewConsumer(cfg config.RabbitMQConfig, service *appvaluation.Service, logger *logrus.Logger) (*Consumer, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	batchCfg := BatchConfig{
		Size:    cfg.BatchSize,
		Timeout: cfg.BatchTimeout,
	}
	consumer := &Consumer{
		cfg:     cfg,
		service: service,
		logger:  logger,
		batcher: NewBatchWriter(batchCfg, service, logger),
	}
	return consumer, nil
}

// Start establishes the AMQP connection and begins consuming requests.
func (c *Consumer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	c.conn = conn
	c.batcher.Run(ctx)

	ch, err := conn.Channel()
	if err != nil {
		c.Close(ctx)
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.RequestsExchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		c.Close(ctx)
		return fmt.Errorf("declare exchange %s: %w", c.cfg.RequestsExchange, err)
	}
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		c.Close(ctx)
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, "", c.cfg.RequestsExchange, false, nil); err != nil {
		ch.Close()
		c.Close(ctx)
		return fmt.Errorf("bind queue %s to %s: %w", queue.Name, c.cfg.RequestsExchange, err)
	}
	prefetch := c.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		c.Close(ctx)
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(queue.Name, "", false, true, false, false, nil)
	if err != nil {
		ch.Close()
		c.Close(ctx)
		return fmt.Errorf("start consume: %w", err)
	}
	c.channel = ch
	c.wg.Add(1)
	go c.consumeLoop(ctx, deliveries)

	c.logger.Infof("rabbitmq consumer started: exchange=%s", c.cfg.RequestsExchange)
	return nil
}

// Close stops consumption, flushes pending batches, and releases resources.
func (c *Consumer) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.wg.Wait()
	if c.batcher == nil {
		return nil
	}
	return c.batcher.Stop(ctx)
}

func (c *Consumer) consumeLoop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	log := c.logger.WithField("stream", "valuation_requests")
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			if err := c.handleDelivery(ctx, &delivery); err != nil {
				log.WithError(err).Warn("failed to process request")
				_ = delivery.Nack(false, false)
				continue
			}
			if err := delivery.Ack(false); err != nil {
				log.WithError(err).Warn("failed to ack delivery")
			}
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, delivery *amqp.Delivery) error {
	var request Request
	if err := json.Unmarshal(delivery.Body, &request); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := request.validateMode(); err != nil {
		return err
	}
	spec, err := request.toSpec()
	if err != nil {
		return err
	}

	var result *appvaluation.Result
	if request.Yield != nil {
		result, err = c.service.Price(ctx, spec, *request.Yield)
	} else {
		result, err = c.service.Yield(ctx, spec, *request.Price)
	}
	if err != nil {
		return fmt.Errorf("compute valuation: %w", err)
	}

	record := domain.NewRecord(spec, result.Raw, domain.SourceWorker)
	return c.batcher.AddRecord(record)
}
