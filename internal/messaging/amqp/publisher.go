// Package amqp forwards domain events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/spinzar/bigcapital/internal/core/domain"
	"github.com/spinzar/bigcapital/internal/middleware"
)

const (
	publishTimeout = 5 * time.Second
	dialTimeout    = 5 * time.Second
	heartbeat      = 10 * time.Second
	maxBackoff     = 30 * time.Second
	connectRetries = 5
)

// ErrNotConnected is returned by Publish while the broker connection is down.
var ErrNotConnected = errors.New("amqp: not connected")

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// session is one live connection with its publishing channel.
type session struct {
	channel amqpChannel
	closed  <-chan *amqp091.Error
	close   func() error
}

type dialFunc func(url, exchangeName string) (*session, error)

// Publisher publishes event envelopes with the event name as routing key.
// Publishing never waits for a reconnect: while the connection is down
// Publish fails with ErrNotConnected and a background loop re-dials.
type Publisher struct {
	url          string
	exchangeName string
	dial         dialFunc
	backoff      func(attempt int) time.Duration

	mu           sync.Mutex
	session      *session
	reconnecting bool
	stopped      bool

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPublisher dials url and declares a durable topic exchange. The initial
// connection is retried with backoff until ctx ends.
func NewPublisher(ctx context.Context, url, exchangeName string) (*Publisher, error) {
	p := newPublisher(url, exchangeName, dialSession)
	s, err := p.connectWithRetry(ctx)
	if err != nil {
		return nil, err
	}
	p.attach(s)
	return p, nil
}

func newPublisher(url, exchangeName string, dial dialFunc) *Publisher {
	return &Publisher{
		url:          url,
		exchangeName: exchangeName,
		dial:         dial,
		backoff:      exponentialBackoff,
		stop:         make(chan struct{}),
	}
}

func dialSession(url, exchangeName string) (*session, error) {
	conn, err := amqp091.DialConfig(url, amqp091.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Dial:      amqp091.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &session{
		channel: channel,
		closed:  conn.NotifyClose(make(chan *amqp091.Error, 1)),
		close: func() error {
			channel.Close()
			if err := conn.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
				return err
			}
			return nil
		},
	}, nil
}

func (p *Publisher) connectWithRetry(ctx context.Context) (*session, error) {
	var err error
	for attempt := 0; attempt < connectRetries; attempt++ {
		var s *session
		if s, err = p.dial(p.url, p.exchangeName); err == nil {
			return s, nil
		}
		wait := p.backoff(attempt)
		slog.WarnContext(ctx, "AMQP connect failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("connect AMQP after %d attempts: %w", connectRetries, err)
}

// attach makes s the live session and watches it for closure.
func (p *Publisher) attach(s *session) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		s.close()
		return
	}
	p.session = s
	p.wg.Add(1)
	p.mu.Unlock()

	go p.watch(s)
}

func (p *Publisher) watch(s *session) {
	defer p.wg.Done()
	select {
	case amqpErr := <-s.closed:
		if amqpErr != nil {
			slog.Warn("AMQP connection closed", slog.String("error", amqpErr.Error()))
		}
		p.drop(s)
	case <-p.stop:
	}
}

// drop discards s if it is still the live session and starts reconnecting.
func (p *Publisher) drop(s *session) {
	p.mu.Lock()
	if p.session != s {
		p.mu.Unlock()
		return
	}
	p.session = nil
	p.startReconnectLocked()
	p.mu.Unlock()

	if err := s.close(); err != nil {
		slog.Debug("Closing dropped AMQP session failed", slog.String("error", err.Error()))
	}
}

func (p *Publisher) startReconnectLocked() {
	if p.reconnecting || p.stopped {
		return
	}
	p.reconnecting = true
	p.wg.Add(1)
	go p.reconnectLoop()
}

func (p *Publisher) reconnectLoop() {
	defer p.wg.Done()
	for attempt := 0; ; attempt++ {
		s, err := p.dial(p.url, p.exchangeName)
		if err == nil {
			p.mu.Lock()
			p.reconnecting = false
			p.mu.Unlock()
			p.attach(s)
			slog.Info("AMQP connection restored", slog.Int("attempts", attempt+1))
			return
		}
		wait := p.backoff(attempt)
		slog.Warn("AMQP reconnect failed",
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
		select {
		case <-p.stop:
			return
		case <-time.After(wait):
		}
	}
}

// Publish sends event to the exchange. It fails fast with ErrNotConnected
// while the connection is being restored.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	env, err := NewEnvelope(event, middleware.GetRequestIDFromCtx(ctx), time.Now())
	if err != nil {
		return err
	}
	body, err := env.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	p.mu.Lock()
	s := p.session
	if s == nil {
		p.startReconnectLocked()
	}
	p.mu.Unlock()
	if s == nil {
		return fmt.Errorf("publish %s: %w", env.Name, ErrNotConnected)
	}

	if err := p.publish(ctx, s, env, body); err != nil {
		if isConnectionError(err) {
			p.drop(s)
		}
		return fmt.Errorf("publish %s: %w", env.Name, err)
	}

	middleware.GetLoggerFromCtx(ctx).Debug("Forwarded event",
		slog.String("event", env.Name),
		slog.String("message_id", env.ID),
		slog.String("exchange", p.exchangeName))
	return nil
}

func (p *Publisher) publish(ctx context.Context, s *session, env *Envelope, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return s.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		env.Name,       // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    env.ID,
			Type:         env.Name,
			Timestamp:    env.OccurredAt,
			Body:         body,
		},
	)
}

// Forward is an event handler that publishes event and only logs failures,
// so a broker outage never fails the operation that raised the event.
func (p *Publisher) Forward(ctx context.Context, event domain.Event) error {
	if err := p.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to forward event",
			slog.String("event", event.EventName()),
			slog.String("error", err.Error()))
	}
	return nil
}

// Close stops reconnecting and closes the live connection.
func (p *Publisher) Close() error {
	p.stopOnce.Do(func() { close(p.stop) })

	p.mu.Lock()
	p.stopped = true
	s := p.session
	p.session = nil
	p.mu.Unlock()

	p.wg.Wait()
	if s != nil {
		return s.close()
	}
	return nil
}

// exponentialBackoff doubles from one second and caps at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "channel/connection is not open", "eof", "broken pipe"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
