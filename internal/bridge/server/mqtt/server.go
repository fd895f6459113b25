package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/autopeer-io/vocbridge/internal/bridge/core"
	"github.com/autopeer-io/vocbridge/internal/pkg/mqtt/paths"
	"github.com/autopeer-io/vocbridge/internal/vehicle"
	"github.com/autopeer-io/vocbridge/internal/voc"
	"github.com/autopeer-io/vocbridge/pkg/log"
	pkgmqtt "github.com/autopeer-io/vocbridge/pkg/mqtt"
	"github.com/autopeer-io/vocbridge/pkg/mqtt/topic"
)

// DefaultWriteTimeout bounds a write received over MQTT. It covers the
// longest command poll.
const DefaultWriteTimeout = 6 * time.Minute

// ActionResult is published after each write to .../action/{action}/result.
type ActionResult struct {
	Action   vehicle.Action `json:"action"`
	Accepted bool           `json:"accepted"`
	Error    string         `json:"error,omitempty"`
}

// Server mirrors the session onto a broker: sensors are published retained
// on every change and writes arrive on the action topics.
type Server struct {
	client  pkgmqtt.Client
	topics  *topic.Builder
	session core.Session
	qos     int

	writeTimeout time.Duration

	mu   sync.Mutex
	last map[string]string
}

// NewServer creates a new MQTT server (client).
func NewServer(client pkgmqtt.Client, builder *topic.Builder, session core.Session, qos int) *Server {
	return &Server{
		client:       client,
		topics:       builder,
		session:      session,
		qos:          qos,
		writeTimeout: DefaultWriteTimeout,
		last:         make(map[string]string),
	}
}

// WillConfig fills in the will message announcing the bridge as offline.
func WillConfig(cfg *pkgmqtt.ClientConfig, builder *topic.Builder, vin string, qos int) {
	cfg.WillTopic = builder.Build(vin, paths.Online)
	cfg.WillPayload = []byte(paths.PayloadOffline)
	cfg.WillQoS = byte(qos)
	cfg.WillRetain = true
}

// Start connects to the broker and subscribes to topics.
func (s *Server) Start(ctx context.Context) error {
	s.session.Subscribe(func(voc.VehicleState) {
		if s.client.IsConnected() {
			s.publishSensors(ctx, false)
		}
	})

	// Retained state may be gone after a broker restart; resend it all.
	s.client.OnConnect(func(c context.Context) {
		s.announce(c)
	})

	if err := s.client.Start(ctx); err != nil {
		return err
	}

	defer func() {
		log.Info("Disconnecting MQTT client...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.client.Publish(shutdownCtx, s.onlineTopic(), s.qos, true, []byte(paths.PayloadOffline)); err != nil {
			log.Warn("Failed to publish offline state", "err", err)
		}
		s.client.Disconnect(shutdownCtx)
		log.Info("MQTT client disconnected")
	}()

	log.Info("Waiting for MQTT connection...")
	if err := s.client.AwaitConnection(ctx); err != nil {
		return err
	}
	log.Info("MQTT Connected")

	if err := s.initMQTTSubscriptions(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return nil
}

func (s *Server) initMQTTSubscriptions(ctx context.Context) error {
	filter := s.topics.BuildWildcard(s.session.VIN(), paths.Action, paths.Set)
	if err := s.client.Subscribe(ctx, filter, s.qos, s.handleAction); err != nil {
		return fmt.Errorf("failed to subscribe to topic: %s, err: %w", filter, err)
	}
	return nil
}

func (s *Server) onlineTopic() string {
	return s.topics.Build(s.session.VIN(), paths.Online)
}

// announce publishes availability, capabilities and every sensor.
func (s *Server) announce(ctx context.Context) {
	if err := s.client.Publish(ctx, s.onlineTopic(), s.qos, true, []byte(paths.PayloadOnline)); err != nil {
		log.Error(err, "Failed to publish online state")
	}

	caps, err := json.Marshal(s.session.Capabilities())
	if err == nil {
		err = s.client.Publish(ctx, s.topics.Build(s.session.VIN(), paths.Capabilities), s.qos, true, caps)
	}
	if err != nil {
		log.Error(err, "Failed to publish capabilities")
	}

	s.publishSensors(ctx, true)
}

// publishSensors publishes every capability sensor whose payload changed,
// or all of them when force is set.
func (s *Server) publishSensors(ctx context.Context, force bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vin := s.session.VIN()
	for id, value := range core.SensorValues(s.session) {
		s.publishValue(ctx, s.topics.Build(vin, paths.Sensor, string(id)), value, force)

		if id == vehicle.SensorLock {
			if target, err := s.session.LockTarget(id); err == nil {
				s.publishValue(ctx, s.topics.Build(vin, paths.Sensor, string(id), "target"), target, force)
			}
		}
	}
}

func (s *Server) publishValue(ctx context.Context, topic string, value any, force bool) {
	payload := fmt.Sprint(value)
	if !force && s.last[topic] == payload {
		return
	}
	if err := s.client.Publish(ctx, topic, s.qos, true, []byte(payload)); err != nil {
		log.Error(err, "Failed to publish sensor", "topic", topic)
		return
	}
	s.last[topic] = payload
}

func (s *Server) handleAction(ctx context.Context, t string, payload []byte) {
	name, ok := s.topics.Match(t, s.session.VIN(), paths.Action, paths.Set)
	if !ok {
		log.Debug("Ignoring message on unexpected topic", "topic", t)
		return
	}
	action := vehicle.Action(name)

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result := ActionResult{Action: action, Accepted: true}
	if err := s.session.Write(ctx, action, parsePayload(payload)); err != nil {
		log.Info("Write not applied", "action", action, "reason", err.Error())
		result = ActionResult{Action: action, Error: err.Error()}
	}

	body, _ := json.Marshal(result)
	if err := s.client.Publish(ctx, s.topics.Build(s.session.VIN(), paths.Action, name, paths.Result), s.qos, false, body); err != nil {
		log.Error(err, "Failed to publish action result", "action", action)
	}
}

// parsePayload accepts JSON scalars and falls back to the raw text, so
// both `true` and `on` reach the session.
func parsePayload(payload []byte) any {
	raw := strings.TrimSpace(string(payload))
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil && v != nil {
		return v
	}
	return raw
}
