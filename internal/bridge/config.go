package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/vocbridge/internal/bridge/core"
	"github.com/autopeer-io/vocbridge/internal/bridge/server"
	"github.com/autopeer-io/vocbridge/internal/bridge/server/http"
	"github.com/autopeer-io/vocbridge/internal/bridge/server/mqtt"
	"github.com/autopeer-io/vocbridge/internal/vehicle"
	"github.com/autopeer-io/vocbridge/internal/voc"
	"github.com/autopeer-io/vocbridge/pkg/log"
	pkgmqtt "github.com/autopeer-io/vocbridge/pkg/mqtt"
	"github.com/autopeer-io/vocbridge/pkg/mqtt/topic"
	"github.com/autopeer-io/vocbridge/pkg/options"
)

type Config struct {
	VOCOptions     *options.VOCOptions
	VehicleOptions *options.VehicleOptions
	HttpOptions    *options.HttpOptions
	MqttOptions    *options.MqttOptions

	// Clock drives refreshes and command polling. Defaults to the real clock.
	Clock clock.WithTickerAndDelayedExecution
}

// OpenSession discovers the vehicle and opens its session. A vehicle that
// cannot be opened yields an unavailable session and a nil *vehicle.Vehicle;
// the process keeps running either way.
func (cfg *Config) OpenSession(ctx context.Context) (core.Session, *vehicle.Vehicle) {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	t, err := voc.NewClient(cfg.VOCOptions.ToClientConfig())
	if err == nil {
		var v *vehicle.Vehicle
		v, err = vehicle.Open(ctx, cfg.VehicleOptions.ToConfig(), t, clk, log.Logr().WithName("vehicle"))
		if err == nil {
			return v, v
		}
	}

	if errors.Is(err, voc.ErrConfiguration) {
		log.Error(err, "Vehicle session not configured, exposing no capabilities")
	} else {
		log.Error(err, "Failed to open vehicle session, exposing no capabilities")
	}
	return &core.Unavailable{Err: err}, nil
}

// NewBridge opens the session and wires the enabled servers around it.
func (cfg *Config) NewBridge(ctx context.Context) (*Bridge, error) {
	session, v := cfg.OpenSession(ctx)

	var servers []server.Server
	if v != nil {
		servers = append(servers, v.Scheduler())
	}

	if cfg.HttpOptions != nil && cfg.HttpOptions.Addr != "" {
		servers = append(servers, http.NewServer(cfg.HttpOptions, session))
	}

	if cfg.MqttOptions.Enabled() && v != nil {
		mqttServer, err := cfg.newMqttServer(session)
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt server: %w", err)
		}
		servers = append(servers, mqttServer)
	}

	return &Bridge{
		session:       session,
		serverManager: server.NewManager(servers...),
	}, nil
}

func (cfg *Config) newMqttServer(session core.Session) (*mqtt.Server, error) {
	builder := topic.NewBuilder(cfg.MqttOptions.TopicRoot)

	clientCfg := cfg.MqttOptions.ToClientConfig()
	if clientCfg.ClientID == "" {
		hostname, _ := os.Hostname()
		clientCfg.ClientID = fmt.Sprintf("cpeer-voc-bridge-%s-%s", session.VIN(), hostname)
	}
	mqtt.WillConfig(clientCfg, builder, session.VIN(), cfg.MqttOptions.QoS)

	client, err := pkgmqtt.NewClient(clientCfg)
	if err != nil {
		return nil, err
	}
	return mqtt.NewServer(client, builder, session, cfg.MqttOptions.QoS), nil
}
