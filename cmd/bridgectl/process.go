package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/c360/bridgelink/restapi"
)

func runProcess(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("process requires a verb: list, info, kill, focus, launch")
	}

	verb, rest := args[0], args[1:]
	switch verb {
	case "list":
		return runProcessList(rest)
	case "info":
		return runProcessInfo(rest)
	case "kill":
		return runProcessKill(rest)
	case "focus":
		return runProcessFocus(rest)
	case "launch":
		return runProcessLaunch(rest)
	default:
		return fmt.Errorf("unknown process verb: %q", verb)
	}
}

func runProcessList(args []string) error {
	conn := parseConn("process list", args)
	client, err := conn.restClient()
	if err != nil {
		return err
	}

	procs, err := client.Processes(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOUNT\tMEMORY\tCPU TIME")
	for _, p := range procs {
		fmt.Fprintf(w, "%s\t%d\t%.1f MB\t%.1fs\n", p.Name, p.Count, p.MemoryMB, p.CPUTime)
	}
	return w.Flush()
}

func runProcessInfo(args []string) error {
	conn := parseConn("process info", args)
	if len(conn.args) != 1 {
		return fmt.Errorf("process info requires a process name")
	}

	client, err := conn.restClient()
	if err != nil {
		return err
	}

	details, err := client.ProcessByName(context.Background(), conn.args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PID\tNAME\tMEMORY\tCPU\tTITLE")
	for _, d := range details {
		title := ""
		if d.Title != nil {
			title = *d.Title
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f%%\t%s\n",
			d.PID, d.Name, formatBytes(d.Memory), d.CPU, title)
	}
	return w.Flush()
}

func runProcessKill(args []string) error {
	fs := flag.NewFlagSet("process kill", flag.ExitOnError)
	conn := registerConnFlags(fs)
	pid := fs.Uint("pid", 0, "Kill the process with this PID")
	name := fs.String("name", "", "Kill every process with this executable name")
	fs.Parse(args)
	conn.Log.setup()

	if (*pid == 0) == (*name == "") {
		return fmt.Errorf("pass exactly one of -pid or -name")
	}

	client, err := conn.restClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var result *restapi.ActionResult
	if *pid != 0 {
		result, err = client.KillProcess(ctx, uint32(*pid))
	} else {
		result, err = client.KillProcessByName(ctx, *name)
	}
	if err != nil {
		return err
	}

	if result.Count != nil {
		fmt.Printf("%s (%d killed)\n", result.Status, *result.Count)
	} else {
		fmt.Println(result.Status)
	}
	return nil
}

func runProcessFocus(args []string) error {
	conn := parseConn("process focus", args)
	if len(conn.args) != 1 {
		return fmt.Errorf("process focus requires a PID")
	}
	pid, err := strconv.ParseUint(conn.args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid PID %q: %w", conn.args[0], err)
	}

	client, err := conn.restClient()
	if err != nil {
		return err
	}

	result, err := client.FocusProcess(context.Background(), uint32(pid))
	if err != nil {
		return err
	}
	fmt.Println(result.Status)
	return nil
}

func runProcessLaunch(args []string) error {
	conn := parseConn("process launch", args)
	if len(conn.args) < 1 {
		return fmt.Errorf("process launch requires an executable path")
	}

	client, err := conn.restClient()
	if err != nil {
		return err
	}

	result, err := client.LaunchProcess(context.Background(), conn.args[0], conn.args[1:])
	if err != nil {
		return err
	}
	fmt.Println(result.Status)
	return nil
}
