// Package mqtttest provides an in-memory mqtt.Client.
package mqtttest

import (
	"context"
	"errors"
	"sync"

	"github.com/autopeer-io/vocbridge/pkg/mqtt"
)

// Message is a recorded publication.
type Message struct {
	Topic   string
	QoS     int
	Retain  bool
	Payload string
}

// Client records publications and dispatches Deliver calls to the
// subscribed handlers. Connection hooks run synchronously inside Start.
type Client struct {
	mu            sync.Mutex
	started       bool
	connected     bool
	published     []Message
	subscriptions map[string]mqtt.MessageHandler
	hooks         []func(ctx context.Context)
}

var _ mqtt.Client = (*Client)(nil)

func New() *Client {
	return &Client{subscriptions: map[string]mqtt.MessageHandler{}}
}

func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	c.started = true
	c.connected = true
	hooks := append([]func(context.Context){}, c.hooks...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
	return nil
}

func (c *Client) Disconnect(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

func (c *Client) Publish(_ context.Context, topic string, qos int, retain bool, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return errors.New("client not started")
	}
	c.published = append(c.published, Message{Topic: topic, QoS: qos, Retain: retain, Payload: string(payload)})
	return nil
}

func (c *Client) Subscribe(_ context.Context, topic string, _ int, handler mqtt.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[topic] = handler
	return nil
}

func (c *Client) Unsubscribe(_ context.Context, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, topic)
	return nil
}

func (c *Client) AwaitConnection(context.Context) error { return nil }

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) OnConnect(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Deliver hands a message to every matching handler and waits for them.
// It reports whether any handler matched.
func (c *Client) Deliver(ctx context.Context, topic string, payload []byte) bool {
	c.mu.Lock()
	var handlers []mqtt.MessageHandler
	for filter, h := range c.subscriptions {
		if mqtt.MatchTopic(filter, topic) {
			handlers = append(handlers, h)
		}
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(ctx, topic, payload)
	}
	return len(handlers) > 0
}

// Subscriptions returns the subscribed filters.
func (c *Client) Subscriptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.subscriptions))
	for f := range c.subscriptions {
		out = append(out, f)
	}
	return out
}

// Published returns every publication so far.
func (c *Client) Published() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.published...)
}

// Last returns the latest publication on topic.
func (c *Client) Last(topic string) (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.published) - 1; i >= 0; i-- {
		if c.published[i].Topic == topic {
			return c.published[i], true
		}
	}
	return Message{}, false
}
