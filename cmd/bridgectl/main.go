// Package main implements bridgectl, a command line tool for driving
// remote bridge hosts over their websocket and REST APIs.
package main

import (
	"fmt"
	"os"
	"runtime"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "bridgectl"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	switch args[0] {
	case "status":
		return runStatus(args[1:])
	case "system":
		return runSystem(args[1:])
	case "usage":
		return runUsage(args[1:])
	case "clients":
		return runClients(args[1:])
	case "watch":
		return runWatch(args[1:])
	case "media":
		return runMedia(args[1:])
	case "process":
		return runProcess(args[1:])
	case "power":
		return runPower(args[1:])
	case "bridges":
		return runBridges(args[1:])
	case "version", "-v", "--version":
		fmt.Printf("%s version %s (build %s)\n", appName, Version, BuildTime)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", args[0])
	}
}

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - remote bridge control

Usage: %s <subcommand> [flags] [args]

Subcommands:
  status                   Ping the bridge and print its version
  system                   Print the bridge host hardware inventory
  usage                    Print a point-in-time usage snapshot
  clients                  Print the number of connected websocket clients
  watch [topic ...]        Subscribe over websocket and print events as they
                           arrive (default topics: stats, media, processes)
  media [action] [value]   Media control: status, play, pause, play_pause,
                           next, prev, volume_up, volume_down, toggle_mute,
                           volume <0-100>
  process <verb>           Process control: list, info, kill, focus, launch
  power <action>           Power control: shutdown, restart, sleep, hibernate
  bridges <verb>           Roster management: list, add, remove
  version                  Print version information

Connection flags shared by bridge subcommands:
  -host, -port, -secure, -api-key, -timeout
  With no -host the roster at -config is consulted; a roster with a single
  bridge selects it as the target.

Every flag falls back to a BRIDGELINK_* environment variable
(BRIDGELINK_HOST, BRIDGELINK_PORT, BRIDGELINK_API_KEY, ...).

Run '%s <subcommand> -h' for subcommand flags.
`, appName, os.Args[0], os.Args[0])
}
