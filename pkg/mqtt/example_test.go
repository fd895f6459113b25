package mqtt_test

import (
	"context"
	"fmt"
	"time"

	"github.com/autopeer-io/vocbridge/pkg/log"
	"github.com/autopeer-io/vocbridge/pkg/mqtt"
	"github.com/autopeer-io/vocbridge/pkg/mqtt/topic"
)

// ExampleClient shows the usual lifecycle: configure, start, wait for the
// connection, subscribe and publish.
func ExampleClient() {
	topics := topic.NewBuilder("vocbridge")

	cfg := &mqtt.ClientConfig{
		BrokerURL:      "tcp://localhost:1883",
		ClientID:       "vocbridge-example",
		KeepAlive:      60,
		ConnectTimeout: 5 * time.Second,
		CleanStart:     true,

		// The broker announces "offline" when this client drops.
		WillTopic:   topics.Build("YV1TEST", "online"),
		WillPayload: []byte("offline"),
		WillQoS:     1,
		WillRetain:  true,
	}

	client, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "Failed to create MQTT client")
		return
	}

	// Start returns at once; connecting and reconnecting happen in the background.
	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		log.Error(err, "Failed to start MQTT client")
		return
	}
	defer client.Disconnect(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.AwaitConnection(waitCtx); err != nil {
		log.Error(err, "Broker not reachable")
		return
	}

	// Handlers run on their own goroutine.
	filter := topics.BuildWildcard("YV1TEST", "action", "set")
	_ = client.Subscribe(ctx, filter, 1, func(ctx context.Context, t string, payload []byte) {
		fmt.Printf("write request on %s: %s\n", t, payload)
	})

	_ = client.Publish(ctx, topics.Build("YV1TEST", "online"), 1, true, []byte("online"))
}
