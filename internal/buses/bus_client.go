package buses

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
	"rpc-sentinel/internal/shared/svcerrors"
	"rpc-sentinel/internal/shared/ulid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Message is one record received from the bus.
type Message struct {
	Topic   string
	Payload []byte
}

// MessageHandler processes one received message. Handlers run on the
// transport's delivery goroutine and must not block for long.
type MessageHandler func(ctx context.Context, msg *Message)

// ConnectedTask runs for the lifetime of one connection. Its context is
// cancelled before any reconnect attempt, so a task never publishes on a
// stale connection handle.
type ConnectedTask func(ctx context.Context, pub Publisher)

//go:generate mockgen -source=bus_client.go -destination=./mocks/bus_client_mock.go -package=mocks

// Publisher publishes fire-and-forget records: at-most-once, no
// acknowledgement, no buffering of undelivered messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) *svcerrors.ServiceError
}

// BusClient is a resilient publish/subscribe transport. Subscriptions and
// connected tasks must be registered before Run. On any connection failure
// the client cancels dependent tasks, waits a fixed backoff, and retries
// forever; there is no exponential backoff or retry cutoff.
type BusClient interface {
	Publisher
	Subscribe(pattern string, handler MessageHandler)
	OnConnect(task ConnectedTask)
	Run(ctx context.Context)
	State() ConnState
}

type subscription struct {
	pattern string
	handler MessageHandler
}

type busClient struct {
	brokerAddr string
	backoff    time.Duration
	logger     loggers.Logger

	subs  []subscription
	tasks []ConnectedTask

	state atomic.Int32

	mu     sync.RWMutex
	client mqtt.Client // nil unless connected
}

// NewBusClient validates and normalizes the broker URL; an invalid address
// is a startup error.
func NewBusClient(brokerURL string, backoff time.Duration, logger loggers.Logger) (BusClient, error) {
	addr, err := ParseBrokerURL(brokerURL)
	if err != nil {
		return nil, errInvalidBrokerURL(err)
	}
	return &busClient{
		brokerAddr: addr,
		backoff:    backoff,
		logger:     logger,
	}, nil
}

func (c *busClient) Subscribe(pattern string, handler MessageHandler) {
	c.subs = append(c.subs, subscription{pattern: pattern, handler: handler})
}

func (c *busClient) OnConnect(task ConnectedTask) {
	c.tasks = append(c.tasks, task)
}

func (c *busClient) State() ConnState {
	return ConnState(c.state.Load())
}

func (c *busClient) setState(s ConnState) {
	c.state.Store(int32(s))
	if s == StateConnected {
		metricBusConnected.Set(1)
	} else {
		metricBusConnected.Set(0)
	}
}

// Publish sends one record at QoS 0. Publishing while disconnected is a
// transport error; the record is dropped, never queued.
func (c *busClient) Publish(_ context.Context, topic string, payload []byte) *svcerrors.ServiceError {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		svcErr := errPublishNotConnected()
		metricBusPublishedTotal.WithLabelValues(svcErr.Code).Inc()
		return svcErr
	}

	token := client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		svcErr := errPublishFailed(err)
		metricBusPublishedTotal.WithLabelValues(svcErr.Code).Inc()
		return svcErr
	}

	metricBusPublishedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return nil
}

// Run drives the connection state machine until ctx is cancelled.
func (c *busClient) Run(ctx context.Context) {
	defer c.setState(StateDisconnected)

	for ctx.Err() == nil {
		c.setState(StateConnecting)

		lost := make(chan struct{})
		client, err := c.connect(lost)
		if err != nil {
			c.logger.Warn().Err(err).Str("broker", c.brokerAddr).Msg("bus connect failed")
			metricBusReconnectsTotal.Inc()
			c.setState(StateReconnecting)
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		c.logger.Info().Str("broker", c.brokerAddr).Msg("bus connected")
		connCtx, cancel := context.WithCancel(ctx)

		if err := c.attachSubscriptions(connCtx, client); err != nil {
			c.logger.Warn().Err(err).Msg("bus subscribe failed")
			cancel()
			client.Disconnect(250)
			metricBusReconnectsTotal.Inc()
			c.setState(StateReconnecting)
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		c.mu.Lock()
		c.client = client
		c.mu.Unlock()
		c.setState(StateConnected)

		var wg sync.WaitGroup
		for _, task := range c.tasks {
			wg.Add(1)
			go func(task ConnectedTask) {
				defer wg.Done()
				task(connCtx, c)
			}(task)
		}

		select {
		case <-ctx.Done():
		case <-lost:
			c.logger.Warn().Msg("bus connection lost")
		}

		// Invalidate the handle and cancel dependent tasks before any
		// reconnect attempt; await their completion so nothing touches
		// the stale connection.
		c.mu.Lock()
		c.client = nil
		c.mu.Unlock()
		cancel()
		wg.Wait()
		client.Disconnect(250)

		if ctx.Err() != nil {
			return
		}
		metricBusReconnectsTotal.Inc()
		c.setState(StateReconnecting)
		if !c.sleep(ctx) {
			return
		}
	}
}

func (c *busClient) connect(lost chan struct{}) (mqtt.Client, error) {
	var lostOnce sync.Once

	opts := mqtt.NewClientOptions().
		AddBroker(c.brokerAddr).
		SetClientID("sentinel-" + ulid.NewULID()).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			c.logger.Warn().Err(err).Msg("bus transport error")
			lostOnce.Do(func() { close(lost) })
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *busClient) attachSubscriptions(connCtx context.Context, client mqtt.Client) error {
	for _, sub := range c.subs {
		handler := sub.handler
		token := client.Subscribe(sub.pattern, 0, func(_ mqtt.Client, m mqtt.Message) {
			metricBusReceivedTotal.WithLabelValues(m.Topic()).Inc()
			handler(connCtx, &Message{Topic: m.Topic(), Payload: m.Payload()})
		})
		token.Wait()
		if err := token.Error(); err != nil {
			return err
		}
	}
	return nil
}

// sleep waits the fixed reconnect backoff; false means ctx was cancelled.
func (c *busClient) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.backoff):
		return true
	}
}
