package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"github.com/google/uuid"

	"github.com/nugget/econet-bridge/internal/config"
)

// Broker is the minimal publish surface the bridge's components use.
// The autopaho-backed [Client] and the test fakes both implement it.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte, retain bool) error
}

// connectTimeout bounds the wait for the initial broker connection.
// Startup fails if the broker is unreachable for this long.
const connectTimeout = 30 * time.Second

// Client manages the MQTT broker connection: will registration,
// reconnection (owned by autopaho), and publishing.
type Client struct {
	cfg               config.MQTTConfig
	availabilityTopic string
	logger            *slog.Logger
	onConnect         func(ctx context.Context)

	// cm is stored atomically because OnConnectionUp can fire on the
	// transport's goroutine before Connect finishes assigning it.
	cm atomic.Pointer[autopaho.ConnectionManager]

	// connCancel tears down the autopaho connection. Deliberately not
	// derived from the caller's context: shutdown must publish the
	// retained "offline" before the connection closes, so cancellation
	// happens in Disconnect, not when the signal context cancels.
	connCancel context.CancelFunc
}

// NewClient creates a Client but does not connect. Call
// [Client.Connect] to establish the connection.
func NewClient(cfg config.MQTTConfig, availabilityTopic string, logger *slog.Logger) *Client {
	return &Client{
		cfg:               cfg,
		availabilityTopic: availabilityTopic,
		logger:            logger,
	}
}

// OnConnect registers a callback invoked on every (re-)connect, from
// the transport's goroutine. Must be called before [Client.Connect].
func (c *Client) OnConnect(fn func(ctx context.Context)) {
	c.onConnect = fn
}

// Connect establishes the broker connection and blocks until it is up.
// The will message (retained "offline" on the availability topic) is
// registered before the connection completes, so abrupt process death
// always leaves correct presence behind. An unreachable broker is a
// startup failure: autopaho would retry forever, but a bridge that
// cannot reach its broker has nothing to do.
func (c *Client) Connect(ctx context.Context) error {
	brokerURL, err := url.Parse(c.cfg.Broker)
	if err != nil {
		return fmt.Errorf("parse mqtt broker URL: %w", err)
	}

	pahoCfg := autopaho.ClientConfig{
		ServerUrls:      []*url.URL{brokerURL},
		KeepAlive:       30,
		ConnectUsername: c.cfg.Username,
		ConnectPassword: []byte(c.cfg.Password),
		WillMessage: &paho.WillMessage{
			Topic:   c.availabilityTopic,
			Payload: []byte(PayloadOffline),
			QoS:     1,
			Retain:  true,
		},
		OnConnectionUp: func(cm *autopaho.ConnectionManager, _ *paho.Connack) {
			c.cm.Store(cm)
			c.logger.Info("mqtt connected to broker", "broker", c.cfg.Broker)
			if c.onConnect != nil {
				c.onConnect(ctx)
			}
		},
		OnConnectError: func(err error) {
			c.logger.Error("mqtt connection error", "error", err)
		},
		ClientConfig: paho.ClientConfig{
			// Random suffix so two bridges on one broker never steal
			// each other's session.
			ClientID: "econet-bridge-" + uuid.NewString()[:8],
		},
	}

	// Enable TLS for mqtts:// or ssl:// schemes.
	if brokerURL.Scheme == "mqtts" || brokerURL.Scheme == "ssl" {
		pahoCfg.TlsCfg = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	connCtx, connCancel := context.WithCancel(context.Background())
	cm, err := autopaho.NewConnection(connCtx, pahoCfg)
	if err != nil {
		connCancel()
		return fmt.Errorf("mqtt connect: %w", err)
	}
	c.connCancel = connCancel
	c.cm.Store(cm)

	awaitCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := cm.AwaitConnection(awaitCtx); err != nil {
		connCancel()
		return fmt.Errorf("mqtt broker unreachable at %s: %w", c.cfg.Broker, err)
	}

	return nil
}

// Publish sends one message. Retained messages (availability,
// discovery) go out at QoS 1; telemetry values at QoS 0, matching
// their fire-and-forget semantics.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, retain bool) error {
	cm := c.cm.Load()
	if cm == nil {
		return fmt.Errorf("mqtt client not connected")
	}
	var qos byte
	if retain {
		qos = 1
	}
	_, err := cm.Publish(ctx, &paho.Publish{
		Topic:   topic,
		Payload: payload,
		QoS:     qos,
		Retain:  retain,
	})
	return err
}

// Disconnect closes the broker connection. The clean-shutdown
// "offline" publish is the availability manager's job and must happen
// before this call.
func (c *Client) Disconnect(ctx context.Context) error {
	cm := c.cm.Load()
	if cm == nil {
		return nil
	}
	err := cm.Disconnect(ctx)
	if c.connCancel != nil {
		c.connCancel()
	}
	return err
}
