package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *Command
		expected string
	}{
		{
			"subscribe",
			Subscribe([]string{"stats", "media"}),
			`{"op": "subscribe", "data": {"topics": ["stats", "media"]}}`,
		},
		{
			"subscribe empty set",
			Subscribe([]string{}),
			`{"op": "subscribe", "data": {"topics": []}}`,
		},
		{
			"unsubscribe",
			Unsubscribe([]string{"processes"}),
			`{"op": "unsubscribe", "data": {"topics": ["processes"]}}`,
		},
		{
			"media action",
			MediaControl(ActionPlayPause),
			`{"op": "media", "data": {"action": "play_pause"}}`,
		},
		{
			"set volume",
			SetVolume(40),
			`{"op": "media", "data": {"action": "set_volume", "value": 40}}`,
		},
		{
			"process kill by pid",
			ProcessKill(4242),
			`{"op": "process_kill", "data": {"pid": 4242}}`,
		},
		{
			"process kill by name",
			ProcessKillByName("notepad"),
			`{"op": "process_kill", "data": {"name": "notepad"}}`,
		},
		{
			"process focus",
			ProcessFocus(777),
			`{"op": "process_focus", "data": {"pid": 777}}`,
		},
		{
			"process launch",
			ProcessLaunch("C:\\tools\\app.exe", "--fast"),
			`{"op": "process_launch", "data": {"path": "C:\\tools\\app.exe", "args": ["--fast"]}}`,
		},
		{
			"process launch without args",
			ProcessLaunch("/usr/bin/top"),
			`{"op": "process_launch", "data": {"path": "/usr/bin/top"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.cmd)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(raw))
		})
	}
}

func TestCommand_SubscribeRoundTrip(t *testing.T) {
	// The bridge decodes subscribe payloads into a topics list; make sure the
	// emitted shape survives a decode through the envelope the server uses.
	raw, err := json.Marshal(Subscribe([]string{"stats.cpu", "stats.memory"}))
	require.NoError(t, err)

	var env struct {
		Op   Op               `json:"op"`
		Data SubscribePayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, OpSubscribe, env.Op)
	assert.Equal(t, []string{"stats.cpu", "stats.memory"}, env.Data.Topics)
}
