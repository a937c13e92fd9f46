package wire

// Op discriminates outbound commands.
type Op string

// Ops the bridge accepts.
const (
	OpSubscribe     Op = "subscribe"
	OpUnsubscribe   Op = "unsubscribe"
	OpMedia         Op = "media"
	OpProcessKill   Op = "process_kill"
	OpProcessFocus  Op = "process_focus"
	OpProcessLaunch Op = "process_launch"
)

// MediaAction names a media transport or volume operation.
type MediaAction string

// Media actions the bridge understands. ActionSetVolume requires a value;
// use SetVolume to build it.
const (
	ActionPlay       MediaAction = "play"
	ActionPause      MediaAction = "pause"
	ActionPlayPause  MediaAction = "play_pause"
	ActionNext       MediaAction = "next"
	ActionPrev       MediaAction = "prev"
	ActionVolumeUp   MediaAction = "volume_up"
	ActionVolumeDown MediaAction = "volume_down"
	ActionToggleMute MediaAction = "toggle_mute"
	ActionSetVolume  MediaAction = "set_volume"
)

// Command is one outbound frame.
type Command struct {
	Op   Op  `json:"op"`
	Data any `json:"data"`
}

// SubscribePayload carries the full replacement topic set. The bridge
// replaces the connection's subscriptions with exactly this list.
type SubscribePayload struct {
	Topics []string `json:"topics"`
}

// MediaControlPayload carries a media action and its optional value.
type MediaControlPayload struct {
	Action MediaAction `json:"action"`
	Value  *int        `json:"value,omitempty"`
}

// KillPayload targets a process by pid or by name.
type KillPayload struct {
	PID  *uint32 `json:"pid,omitempty"`
	Name *string `json:"name,omitempty"`
}

// FocusPayload raises the window of the given process.
type FocusPayload struct {
	PID uint32 `json:"pid"`
}

// LaunchPayload starts a program on the bridge host.
type LaunchPayload struct {
	Path string   `json:"path"`
	Args []string `json:"args,omitempty"`
}

// Subscribe builds the replacement-set subscription command.
func Subscribe(topics []string) *Command {
	return &Command{Op: OpSubscribe, Data: SubscribePayload{Topics: topics}}
}

// Unsubscribe builds an explicit unsubscribe for the given topics. The
// connection manager never emits this itself; it exists for callers talking
// to bridges that prune per-topic.
func Unsubscribe(topics []string) *Command {
	return &Command{Op: OpUnsubscribe, Data: SubscribePayload{Topics: topics}}
}

// MediaControl builds a media command without a value.
func MediaControl(action MediaAction) *Command {
	return &Command{Op: OpMedia, Data: MediaControlPayload{Action: action}}
}

// SetVolume builds the set_volume media command.
func SetVolume(level int) *Command {
	return &Command{Op: OpMedia, Data: MediaControlPayload{Action: ActionSetVolume, Value: &level}}
}

// ProcessKill targets a process by pid.
func ProcessKill(pid uint32) *Command {
	return &Command{Op: OpProcessKill, Data: KillPayload{PID: &pid}}
}

// ProcessKillByName targets all processes with the given name.
func ProcessKillByName(name string) *Command {
	return &Command{Op: OpProcessKill, Data: KillPayload{Name: &name}}
}

// ProcessFocus raises the window of the given process.
func ProcessFocus(pid uint32) *Command {
	return &Command{Op: OpProcessFocus, Data: FocusPayload{PID: pid}}
}

// ProcessLaunch starts a program on the bridge host.
func ProcessLaunch(path string, args ...string) *Command {
	return &Command{Op: OpProcessLaunch, Data: LaunchPayload{Path: path, Args: args}}
}
