package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/c360/bridgelink/errors"
	"github.com/c360/bridgelink/wire"
)

// ServerStatus is the liveness document served by GET /api/status.
type ServerStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ActionResult acknowledges a command endpoint. Count appears on
// kill-by-name responses and reports how many processes matched.
type ActionResult struct {
	Status string `json:"status"`
	Count  *int   `json:"count,omitempty"`
}

// PowerAction names a host power operation.
type PowerAction string

// Power actions the bridge accepts.
const (
	PowerShutdown  PowerAction = "shutdown"
	PowerRestart   PowerAction = "restart"
	PowerSleep     PowerAction = "sleep"
	PowerHibernate PowerAction = "hibernate"
)

// Status reports bridge liveness and version.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	var out ServerStatus
	if err := c.get(ctx, "Status", "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SystemInfo fetches the static hardware and OS inventory.
func (c *Client) SystemInfo(ctx context.Context) (*wire.SystemInfo, error) {
	var out wire.SystemInfo
	if err := c.get(ctx, "SystemInfo", "/api/system", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Usage fetches an on-demand resource usage snapshot.
func (c *Client) Usage(ctx context.Context) (*wire.SystemUsage, error) {
	var out wire.SystemUsage
	if err := c.get(ctx, "Usage", "/api/usage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientCount reports how many websocket clients the bridge is serving.
func (c *Client) ClientCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "ClientCount", "/api/clients", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Processes lists the running processes on the bridge host.
func (c *Client) Processes(ctx context.Context) ([]wire.ProcessInfo, error) {
	var out []wire.ProcessInfo
	if err := c.get(ctx, "Processes", "/api/processes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessByName fetches detailed records for every process matching name.
func (c *Client) ProcessByName(ctx context.Context, name string) ([]wire.ProcessDetail, error) {
	if name == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("process name cannot be empty"),
			"restapi", "ProcessByName", "validate")
	}
	var out []wire.ProcessDetail
	path := "/api/processes/" + url.PathEscape(name)
	if err := c.get(ctx, "ProcessByName", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// KillProcess terminates the process with the given pid.
func (c *Client) KillProcess(ctx context.Context, pid uint32) (*ActionResult, error) {
	var out ActionResult
	err := c.post(ctx, "KillProcess", "/api/processes/kill", wire.KillPayload{PID: &pid}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// KillProcessByName terminates every process with the given executable name.
// The result's Count reports how many were killed.
func (c *Client) KillProcessByName(ctx context.Context, name string) (*ActionResult, error) {
	if name == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("process name cannot be empty"),
			"restapi", "KillProcessByName", "validate")
	}
	var out ActionResult
	err := c.post(ctx, "KillProcessByName", "/api/processes/kill", wire.KillPayload{Name: &name}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FocusProcess raises the window of the given process.
func (c *Client) FocusProcess(ctx context.Context, pid uint32) (*ActionResult, error) {
	var out ActionResult
	err := c.post(ctx, "FocusProcess", "/api/processes/focus", wire.FocusPayload{PID: pid}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LaunchProcess starts a program on the bridge host.
func (c *Client) LaunchProcess(ctx context.Context, path string, args []string) (*ActionResult, error) {
	if path == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("launch path cannot be empty"),
			"restapi", "LaunchProcess", "validate")
	}
	var out ActionResult
	err := c.post(ctx, "LaunchProcess", "/api/processes/launch", wire.LaunchPayload{Path: path, Args: args}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MediaStatus fetches the current playback state.
func (c *Client) MediaStatus(ctx context.Context) (*wire.MediaStatus, error) {
	var out wire.MediaStatus
	if err := c.get(ctx, "MediaStatus", "/api/media/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MediaControl sends a valueless media action. Use SetVolume for set_volume.
func (c *Client) MediaControl(ctx context.Context, action wire.MediaAction) (*ActionResult, error) {
	var out ActionResult
	err := c.post(ctx, "MediaControl", "/api/media/control", wire.MediaControlPayload{Action: action}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetVolume sets the bridge host's output volume, 0 through 100.
func (c *Client) SetVolume(ctx context.Context, value int) (*ActionResult, error) {
	var out ActionResult
	payload := wire.MediaControlPayload{Action: wire.ActionSetVolume, Value: &value}
	err := c.post(ctx, "SetVolume", "/api/media/control", payload, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Power asks the bridge host to shut down, restart, sleep, or hibernate.
func (c *Client) Power(ctx context.Context, action PowerAction) (*ActionResult, error) {
	switch action {
	case PowerShutdown, PowerRestart, PowerSleep, PowerHibernate:
	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("unknown power action %q", action),
			"restapi", "Power", "validate")
	}
	var out ActionResult
	err := c.post(ctx, "Power", "/api/pw/"+string(action), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
