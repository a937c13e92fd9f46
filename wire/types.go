package wire

// Topics the bridge ships with. The server expands coarse topics to their
// dotted sub-channels, so subscribing to TopicStats covers all stats.* data.
const (
	TopicStats        = "stats"
	TopicStatsCPU     = "stats.cpu"
	TopicStatsMemory  = "stats.memory"
	TopicStatsGPU     = "stats.gpu"
	TopicStatsDisks   = "stats.disks"
	TopicStatsNetwork = "stats.network"
	TopicMedia        = "media"
	TopicProcesses    = "processes"
)

// CPUUsage is a point-in-time CPU load sample.
type CPUUsage struct {
	CurrentLoad  float64 `json:"current_load"`
	CurrentTemp  float64 `json:"current_temp"`
	CurrentSpeed float64 `json:"current_speed"`
}

// MemoryUsage is a point-in-time memory sample.
type MemoryUsage struct {
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// GPUUsage is a point-in-time GPU sample.
type GPUUsage struct {
	CurrentLoad   float64 `json:"current_load"`
	CurrentTemp   float64 `json:"current_temp"`
	CurrentMemory int64   `json:"current_memory"`
}

// DiskUsage is a point-in-time usage sample for one filesystem.
type DiskUsage struct {
	FS          string  `json:"fs"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// NetworkUsage is a point-in-time traffic counter sample.
type NetworkUsage struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

// MediaStatus describes the bridge's current media session. Optional fields
// are nil when the platform backend cannot report them.
type MediaStatus struct {
	Status       string  `json:"status"`
	Volume       *int    `json:"volume"`
	Muted        *bool   `json:"muted"`
	Playing      *bool   `json:"playing"`
	Title        *string `json:"title"`
	Artist       *string `json:"artist"`
	SupportsCtrl bool    `json:"supports_ctrl"`
}

// StatsPayload is the rolling telemetry snapshot streamed on the stats
// topics. Sections the client did not subscribe to arrive nil.
type StatsPayload struct {
	Timestamp int64         `json:"timestamp"`
	Uptime    uint64        `json:"uptime"`
	CPU       *CPUUsage     `json:"cpu,omitempty"`
	Memory    *MemoryUsage  `json:"memory,omitempty"`
	GPU       *GPUUsage     `json:"gpu,omitempty"`
	Disks     []DiskUsage   `json:"disks,omitempty"`
	Network   *NetworkUsage `json:"network,omitempty"`
	Media     *MediaStatus  `json:"media,omitempty"`
}

// ProcessInfo is one aggregated process group in a process list snapshot.
type ProcessInfo struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Memory   uint64  `json:"memory"`
	MemoryMB float64 `json:"memory_mb"`
	CPUTime  float64 `json:"cpu_time"`
}

// ProcessListPayload is a snapshot of the bridge's running processes.
type ProcessListPayload struct {
	Timestamp  int64         `json:"timestamp"`
	Processes  []ProcessInfo `json:"processes"`
	TotalCount int           `json:"total_count"`
}

// ProcessDetail is one concrete process as returned by the by-name REST
// lookup, including window state.
type ProcessDetail struct {
	PID       uint32  `json:"pid"`
	Name      string  `json:"name"`
	Memory    uint64  `json:"memory"`
	CPU       float64 `json:"cpu"`
	Title     *string `json:"title"`
	HasWindow bool    `json:"has_window"`
}

// OperationFeedback reports the outcome of a media or process command.
type OperationFeedback struct {
	Success bool    `json:"success"`
	Action  string  `json:"action"`
	Message *string `json:"message,omitempty"`
	PID     *uint32 `json:"pid,omitempty"`
	Name    *string `json:"name,omitempty"`
}

// OSInfo describes the bridge host operating system.
type OSInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Arch    string `json:"arch"`
}

// CPUInfo describes the bridge host CPU hardware.
type CPUInfo struct {
	Manufacturer  string  `json:"manufacturer"`
	Brand         string  `json:"brand"`
	Cores         int     `json:"cores"`
	PhysicalCores int     `json:"physical_cores"`
	BaseSpeed     float64 `json:"base_speed"`
}

// GPUInfo describes the bridge host GPU hardware.
type GPUInfo struct {
	Manufacturer string `json:"manufacturer"`
	Brand        string `json:"brand"`
	MemoryTotal  uint64 `json:"memory_total"`
}

// MemoryInfo describes installed memory.
type MemoryInfo struct {
	Total uint64 `json:"total"`
	Slots int    `json:"slots"`
}

// DiskInfo describes one fixed disk.
type DiskInfo struct {
	FS    string `json:"fs"`
	Type  string `json:"type"`
	Size  uint64 `json:"size"`
	Mount string `json:"mount"`
}

// NetworkInfo describes the primary network interface.
type NetworkInfo struct {
	Name string `json:"name"`
	MAC  string `json:"mac"`
	IPv4 string `json:"ipv4"`
	IPv6 string `json:"ipv6"`
}

// SystemInfo is the static hardware/OS inventory served by GET /api/system.
type SystemInfo struct {
	Hostname string       `json:"hostname"`
	Platform string       `json:"platform"`
	OS       OSInfo       `json:"os"`
	CPU      CPUInfo      `json:"cpu"`
	GPU      *GPUInfo     `json:"gpu"`
	Memory   MemoryInfo   `json:"memory"`
	Disks    []DiskInfo   `json:"disks"`
	Network  *NetworkInfo `json:"network"`
}

// SystemUsage is the on-demand usage snapshot served by GET /api/usage.
type SystemUsage struct {
	Uptime uint64      `json:"uptime"`
	CPU    CPUUsage    `json:"cpu"`
	Memory MemoryUsage `json:"memory"`
	GPU    *GPUUsage   `json:"gpu"`
	Disks  []DiskUsage `json:"disks"`
}
