package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	b := NewBuilder("/vocbridge/")

	assert.Equal(t, "vocbridge", b.Root())
	assert.Equal(t, "vocbridge/YV1/online", b.Build("YV1", "online"))
	assert.Equal(t, "vocbridge/YV1/sensor/carLocked", b.Build("YV1", "sensor", "carLocked"))
	assert.Equal(t, "vocbridge/YV1/action/+/set", b.BuildWildcard("YV1", "action", "set"))
	assert.Equal(t, "YV1/online", NewBuilder("").Build("YV1", "online"))
}

func TestMatch(t *testing.T) {
	b := NewBuilder("vocbridge")

	tests := []struct {
		topic string
		want  string
		ok    bool
	}{
		{topic: "vocbridge/YV1/action/heater/set", want: "heater", ok: true},
		{topic: "vocbridge/YV1/action/lock-unlock/set", want: "lock-unlock", ok: true},
		{topic: "vocbridge/YV1/action/heater/result"},
		{topic: "vocbridge/YV1/action/set"},
		{topic: "vocbridge/YV1/action/a/b/set"},
		{topic: "vocbridge/YV2/action/heater/set"},
		{topic: "other/YV1/action/heater/set"},
	}

	for _, tt := range tests {
		got, ok := b.Match(tt.topic, "YV1", "action", "set")
		assert.Equal(t, tt.ok, ok, tt.topic)
		assert.Equal(t, tt.want, got, tt.topic)
	}
}
