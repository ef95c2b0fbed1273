package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"creator-market/pkg/config"
	"creator-market/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "marketplace.events"

	RoutingKeyPurchaseSettled = "purchase.settled"

	SalesSummaryInvalidationQueue = "sales_summary_invalidation"
)

var errNotConnected = errors.New("rabbitmq connection is not available")

// Handler processes one delivery. Returning an error requeues the message.
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Client keeps one connection to the broker and redials it when the broker
// drops it. Consumers started with Consume resubscribe on the new channel.
type Client struct {
	url    string
	logger *logger.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel

	// ctx ends when Close is called and stops reconnects and consumers.
	ctx    context.Context
	cancel context.CancelFunc
}

func amqpURL(cfg *config.Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)
}

// dialPolicy bounds the initial connect so a misconfigured service fails fast.
func dialPolicy() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	return policy
}

// reconnectPolicy retries until the client is closed.
func reconnectPolicy() *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = 15 * time.Second
	policy.MaxElapsedTime = 0
	return policy
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		url:    amqpURL(cfg),
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := c.connect(dialPolicy()); err != nil {
		cancel()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)
	return c, nil
}

// connect dials with policy, declares the events exchange and starts watching
// the new connection for failures.
func (c *Client) connect(policy backoff.BackOff) error {
	var conn *amqp.Connection
	dial := func() error {
		var err error
		conn, err = amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("[RABBITMQ] Dial failed, retrying: %v", err)
		}
		return err
	}

	if err := backoff.Retry(dial, backoff.WithContext(policy, c.ctx)); err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		EventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	channelClosed := channel.NotifyClose(make(chan *amqp.Error, 1))

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()

	go c.watch(conn, connClosed, channelClosed)
	return nil
}

// watch waits for the connection or its channel to fail and redials. A
// graceful Close delivers no error and ends the watch.
func (c *Client) watch(conn *amqp.Connection, connClosed, channelClosed <-chan *amqp.Error) {
	var reason *amqp.Error
	select {
	case <-c.ctx.Done():
		return
	case reason = <-connClosed:
	case reason = <-channelClosed:
	}
	if reason == nil || c.ctx.Err() != nil {
		return
	}

	c.logger.Warn("[RABBITMQ] Connection lost: %v, reconnecting", reason)

	c.mu.Lock()
	c.channel = nil
	c.conn = nil
	c.mu.Unlock()
	conn.Close()

	for c.ctx.Err() == nil {
		if err := c.connect(reconnectPolicy()); err != nil {
			c.logger.Error("[RABBITMQ] Reconnect failed: %v", err)
			continue
		}
		c.logger.Info("[RABBITMQ] Reconnected to broker")
		return
	}
}

func (c *Client) currentChannel() (*amqp.Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.channel == nil {
		return nil, errNotConnected
	}
	return c.channel, nil
}

func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		conn := c.conn
		c.conn = nil
		return conn.Close()
	}
	return nil
}

// Publish sends a persistent JSON message to the events exchange.
func (c *Client) Publish(ctx context.Context, routingKey, messageID string, body []byte) error {
	channel, err := c.currentChannel()
	if err == nil {
		err = channel.PublishWithContext(
			ctx,
			EventsExchange, // exchange
			routingKey,     // routing key
			false,          // mandatory
			false,          // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				MessageId:    messageID,
				Body:         body,
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
			},
		)
	}
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish message to exchange=%s, routing_key=%s: %v", EventsExchange, routingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("[RABBITMQ] Published message_id=%s to exchange=%s, routing_key=%s", messageID, EventsExchange, routingKey)
	return nil
}

// Consume declares a durable queue bound to routingKeys and dispatches each
// delivery to handler until ctx is cancelled or the client is closed. When
// the broker connection drops, the consumer resubscribes once the client has
// reconnected.
func (c *Client) Consume(ctx context.Context, queueName string, routingKeys []string, handler Handler) error {
	msgs, err := c.subscribe(queueName, routingKeys)
	if err != nil {
		return err
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", queueName)

	go func() {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-c.ctx.Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		for {
			if dispatch(ctx, msgs, handler, c.logger) {
				return
			}
			c.logger.Warn("[RABBITMQ] Delivery channel closed for queue: %s, resubscribing", queueName)

			next, err := c.resubscribe(ctx, queueName, routingKeys)
			if err != nil {
				c.logger.Info("[RABBITMQ] Stopped consuming from queue: %s", queueName)
				return
			}
			msgs = next
			c.logger.Info("[RABBITMQ] Resumed consuming from queue: %s", queueName)
		}
	}()

	return nil
}

func (c *Client) resubscribe(ctx context.Context, queueName string, routingKeys []string) (<-chan amqp.Delivery, error) {
	var msgs <-chan amqp.Delivery
	operation := func() error {
		var err error
		msgs, err = c.subscribe(queueName, routingKeys)
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Debug("[RABBITMQ] Resubscribe to %s failed, next try in %s: %v", queueName, wait, err)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(reconnectPolicy(), ctx), notify); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) subscribe(queueName string, routingKeys []string) (<-chan amqp.Delivery, error) {
	channel, err := c.currentChannel()
	if err != nil {
		return nil, err
	}

	if _, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(queueName, key, EventsExchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind queue %s to %s: %w", queueName, key, err)
		}
	}

	msgs, err := channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}

// dispatch hands deliveries to handler. It reports true when ctx ended and
// false when the delivery channel closed under it.
func dispatch(ctx context.Context, msgs <-chan amqp.Delivery, handler Handler, log *logger.Logger) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			if err := handler(ctx, msg.RoutingKey, msg.Body); err != nil {
				log.Error("[RABBITMQ] Handler failed for message_id=%s routing_key=%s: %v", msg.MessageId, msg.RoutingKey, err)
				if err := msg.Nack(false, !msg.Redelivered); err != nil {
					log.Warn("[RABBITMQ] Nack failed for message_id=%s: %v", msg.MessageId, err)
				}
				continue
			}
			if err := msg.Ack(false); err != nil {
				log.Warn("[RABBITMQ] Ack failed for message_id=%s: %v", msg.MessageId, err)
			}
		}
	}
}
