package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicsMatch(t *testing.T) {
	tests := []struct {
		filter string
		topic  string
		want   bool
	}{
		{"vocbridge/YV1/online", "vocbridge/YV1/online", true},
		{"vocbridge/YV1/action/+/set", "vocbridge/YV1/action/heater/set", true},
		{"vocbridge/YV1/action/+/set", "vocbridge/YV1/action/heater/result", false},
		{"vocbridge/YV1/action/+/set", "vocbridge/YV1/action/set", false},
		{"vocbridge/#", "vocbridge/YV1/sensor/carLocked", true},
		{"vocbridge/YV1/sensor", "vocbridge/YV1/sensor/carLocked", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, topicsMatch(tt.filter, tt.topic), "%s vs %s", tt.filter, tt.topic)
	}
}

func TestTopicFilterStripsSharedGroup(t *testing.T) {
	assert.Equal(t, "vocbridge/+/online", topicFilter("$share/bridges/vocbridge/+/online"))
	assert.Equal(t, "vocbridge/+/online", topicFilter("vocbridge/+/online"))
}

func TestClientConfigValidate(t *testing.T) {
	assert.Error(t, (&ClientConfig{}).Validate())
	assert.Error(t, (&ClientConfig{BrokerURL: "localhost"}).Validate())
	assert.NoError(t, (&ClientConfig{BrokerURL: "tcp://localhost:1883"}).Validate())
}

func TestNewClientAppliesDefaults(t *testing.T) {
	cfg := &ClientConfig{BrokerURL: "tcp://localhost:1883"}
	c, err := NewClient(cfg)
	assert.NoError(t, err)
	assert.False(t, c.IsConnected())
	assert.Equal(t, uint16(60), cfg.KeepAlive)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestMatchTopicShared(t *testing.T) {
	assert.True(t, MatchTopic("$share/g/vocbridge/+/online", "vocbridge/YV1/online"))
	assert.False(t, MatchTopic("$share/g/vocbridge/+/online", "vocbridge/YV1/sensor/x"))
}
