package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/bridgelink/errors"
)

func TestParseEvent_SystemStats(t *testing.T) {
	raw := []byte(`{
		"type": "system_stats",
		"data": {
			"timestamp": 1712345678901,
			"uptime": 86400,
			"cpu": {"current_load": 42.5, "current_temp": 61.0, "current_speed": 3.6},
			"memory": {"used": 8589934592, "free": 8589934592, "used_percent": 50.0},
			"disks": [{"fs": "C:", "used": 100, "available": 900, "used_percent": 10.0}],
			"network": {"bytes_sent": 1024, "bytes_recv": 4096}
		}
	}`)

	ev, err := ParseEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, EventSystemStats, ev.Type)
	assert.True(t, ev.Known())

	stats := ev.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, int64(1712345678901), stats.Timestamp)
	assert.Equal(t, uint64(86400), stats.Uptime)
	require.NotNil(t, stats.CPU)
	assert.Equal(t, 42.5, stats.CPU.CurrentLoad)
	require.NotNil(t, stats.Memory)
	assert.Equal(t, 50.0, stats.Memory.UsedPercent)
	assert.Nil(t, stats.GPU)
	require.Len(t, stats.Disks, 1)
	assert.Equal(t, "C:", stats.Disks[0].FS)
	require.NotNil(t, stats.Network)
	assert.Equal(t, uint64(4096), stats.Network.BytesRecv)
}

func TestParseEvent_MediaUpdate(t *testing.T) {
	raw := []byte(`{
		"type": "media_update",
		"data": {
			"status": "ok",
			"volume": 35,
			"muted": false,
			"playing": true,
			"title": "Song",
			"artist": "Band",
			"supports_ctrl": true
		}
	}`)

	ev, err := ParseEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, EventMediaUpdate, ev.Type)

	media := ev.Media()
	require.NotNil(t, media)
	assert.Equal(t, "ok", media.Status)
	require.NotNil(t, media.Volume)
	assert.Equal(t, 35, *media.Volume)
	require.NotNil(t, media.Playing)
	assert.True(t, *media.Playing)
	assert.True(t, media.SupportsCtrl)
}

func TestParseEvent_ProcessList(t *testing.T) {
	raw := []byte(`{
		"type": "process_list",
		"data": {
			"timestamp": 1712345678901,
			"processes": [
				{"name": "chrome", "count": 12, "memory": 2147483648, "memory_mb": 2048.0, "cpu_time": 3600.5}
			],
			"total_count": 312
		}
	}`)

	ev, err := ParseEvent(raw)
	require.NoError(t, err)

	list := ev.Processes()
	require.NotNil(t, list)
	assert.Equal(t, 312, list.TotalCount)
	require.Len(t, list.Processes, 1)
	assert.Equal(t, "chrome", list.Processes[0].Name)
	assert.Equal(t, 12, list.Processes[0].Count)
}

func TestParseEvent_Feedback(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
	}{
		{"media feedback", EventMediaFeedback},
		{"process feedback", EventProcessFeedback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte(`{"type": "` + string(tt.eventType) + `", "data": {"success": false, "action": "kill", "message": "no such pid", "pid": 4242}}`)

			ev, err := ParseEvent(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.eventType, ev.Type)

			fb := ev.Feedback()
			require.NotNil(t, fb)
			assert.False(t, fb.Success)
			assert.Equal(t, "kill", fb.Action)
			require.NotNil(t, fb.Message)
			assert.Equal(t, "no such pid", *fb.Message)
			require.NotNil(t, fb.PID)
			assert.Equal(t, uint32(4242), *fb.PID)
		})
	}
}

func TestParseEvent_Connected(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type": "connected", "data": {"message": "hello"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventConnected, ev.Type)

	payload, ok := ev.Payload.(*ConnectedPayload)
	require.True(t, ok)
	assert.Equal(t, "hello", payload.Message)
}

func TestParseEvent_ConnectedWithoutData(t *testing.T) {
	// Some server builds send the ack with no data body.
	ev, err := ParseEvent([]byte(`{"type": "connected"}`))
	require.NoError(t, err)

	payload, ok := ev.Payload.(*ConnectedPayload)
	require.True(t, ok)
	assert.Empty(t, payload.Message)
}

func TestParseEvent_Error(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type": "error", "data": {"message": "bad key", "code": "AUTH"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventError, ev.Type)

	payload := ev.Err()
	require.NotNil(t, payload)
	assert.Equal(t, "bad key", payload.Message)
	assert.Equal(t, "AUTH", payload.Code)
}

func TestParseEvent_UnknownType(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type": "clipboard_update", "data": {"text": "hi"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventType("clipboard_update"), ev.Type)
	assert.False(t, ev.Known())

	// Raw payload is preserved for logging.
	raw, ok := ev.Payload.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"text": "hi"}`, string(raw))
}

func TestParseEvent_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing type", `{"data": {"message": "x"}}`},
		{"payload type mismatch", `{"type": "system_stats", "data": {"timestamp": "not-a-number"}}`},
		{"array payload", `{"type": "media_update", "data": [1, 2, 3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.raw))
			assert.Nil(t, ev)
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestEvent_AccessorsReturnNilForOtherTypes(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type": "media_update", "data": {"status": "ok", "supports_ctrl": false}}`))
	require.NoError(t, err)

	assert.Nil(t, ev.Stats())
	assert.Nil(t, ev.Processes())
	assert.Nil(t, ev.Feedback())
	assert.Nil(t, ev.Err())
	assert.NotNil(t, ev.Media())
}
