package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/c360/bridgelink/restapi"
	"github.com/c360/bridgelink/wire"
)

func runStatus(args []string) error {
	conn := parseConn("status", args)
	client, err := conn.restClient()
	if err != nil {
		return err
	}

	st, err := client.Status(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%s (server version %s)\n", st.Status, st.Version)
	return nil
}

func runSystem(args []string) error {
	conn := parseConn("system", args)
	client, err := conn.restClient()
	if err != nil {
		return err
	}

	info, err := client.SystemInfo(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Hostname:  %s\n", info.Hostname)
	fmt.Printf("Platform:  %s\n", info.Platform)
	fmt.Printf("OS:        %s %s build %s (%s)\n",
		info.OS.Name, info.OS.Version, info.OS.Build, info.OS.Arch)
	fmt.Printf("CPU:       %s %s, %d cores / %d threads @ %.1f GHz\n",
		info.CPU.Manufacturer, info.CPU.Brand,
		info.CPU.PhysicalCores, info.CPU.Cores, info.CPU.BaseSpeed)
	if info.GPU != nil {
		fmt.Printf("GPU:       %s %s (%s)\n",
			info.GPU.Manufacturer, info.GPU.Brand, formatBytes(info.GPU.MemoryTotal))
	}
	fmt.Printf("Memory:    %s in %d slots\n", formatBytes(info.Memory.Total), info.Memory.Slots)
	for _, d := range info.Disks {
		fmt.Printf("Disk:      %s %s %s mounted at %s\n",
			d.FS, d.Type, formatBytes(d.Size), d.Mount)
	}
	if info.Network != nil {
		fmt.Printf("Network:   %s %s %s\n",
			info.Network.Name, info.Network.MAC, info.Network.IPv4)
	}
	return nil
}

func runUsage(args []string) error {
	conn := parseConn("usage", args)
	client, err := conn.restClient()
	if err != nil {
		return err
	}

	u, err := client.Usage(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Uptime:    %s\n", time.Duration(u.Uptime)*time.Second)
	fmt.Printf("CPU:       %.1f%% load, %.0f C, %.2f GHz\n",
		u.CPU.CurrentLoad, u.CPU.CurrentTemp, u.CPU.CurrentSpeed)
	fmt.Printf("Memory:    %s / %s used (%.1f%%)\n",
		formatBytes(u.Memory.Used), formatBytes(u.Memory.Used+u.Memory.Free), u.Memory.UsedPercent)
	if u.GPU != nil {
		fmt.Printf("GPU:       %.1f%% load, %.0f C\n", u.GPU.CurrentLoad, u.GPU.CurrentTemp)
	}
	for _, d := range u.Disks {
		fmt.Printf("Disk %-5s %s used, %s free (%.1f%%)\n",
			d.FS+":", formatBytes(d.Used), formatBytes(d.Available), d.UsedPercent)
	}
	return nil
}

func runClients(args []string) error {
	conn := parseConn("clients", args)
	client, err := conn.restClient()
	if err != nil {
		return err
	}

	count, err := client.ClientCount(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d connected client(s)\n", count)
	return nil
}

// mediaActions maps CLI action words onto wire actions. "volume" is handled
// separately because it carries a value.
var mediaActions = map[string]wire.MediaAction{
	"play":        wire.ActionPlay,
	"pause":       wire.ActionPause,
	"play_pause":  wire.ActionPlayPause,
	"next":        wire.ActionNext,
	"prev":        wire.ActionPrev,
	"volume_up":   wire.ActionVolumeUp,
	"volume_down": wire.ActionVolumeDown,
	"toggle_mute": wire.ActionToggleMute,
}

func runMedia(args []string) error {
	conn := parseConn("media", args)
	words := conn.args
	if len(words) == 0 {
		words = []string{"status"}
	}

	client, err := conn.restClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch action := words[0]; action {
	case "status":
		st, err := client.MediaStatus(ctx)
		if err != nil {
			return err
		}
		printMediaStatus(st)
		return nil
	case "volume":
		if len(words) < 2 {
			return fmt.Errorf("volume requires a value between 0 and 100")
		}
		value, err := strconv.Atoi(words[1])
		if err != nil {
			return fmt.Errorf("invalid volume %q: %w", words[1], err)
		}
		result, err := client.SetVolume(ctx, value)
		if err != nil {
			return err
		}
		fmt.Println(result.Status)
		return nil
	default:
		wireAction, ok := mediaActions[action]
		if !ok {
			return fmt.Errorf("unknown media action: %q", action)
		}
		result, err := client.MediaControl(ctx, wireAction)
		if err != nil {
			return err
		}
		fmt.Println(result.Status)
		return nil
	}
}

func printMediaStatus(st *wire.MediaStatus) {
	fmt.Printf("Status:    %s\n", st.Status)
	if st.Playing != nil {
		fmt.Printf("Playing:   %t\n", *st.Playing)
	}
	if st.Title != nil && *st.Title != "" {
		fmt.Printf("Title:     %s\n", *st.Title)
	}
	if st.Artist != nil && *st.Artist != "" {
		fmt.Printf("Artist:    %s\n", *st.Artist)
	}
	if st.Volume != nil {
		fmt.Printf("Volume:    %d%%\n", *st.Volume)
	}
	if st.Muted != nil {
		fmt.Printf("Muted:     %t\n", *st.Muted)
	}
	fmt.Printf("Control:   supported=%t\n", st.SupportsCtrl)
}

func runPower(args []string) error {
	conn := parseConn("power", args)
	if len(conn.args) != 1 {
		return fmt.Errorf("power requires exactly one action: shutdown, restart, sleep, hibernate")
	}

	client, err := conn.restClient()
	if err != nil {
		return err
	}

	result, err := client.Power(context.Background(), restapi.PowerAction(conn.args[0]))
	if err != nil {
		return err
	}
	fmt.Println(result.Status)
	return nil
}

// formatBytes renders a byte count in the largest sensible binary unit.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
