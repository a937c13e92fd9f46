package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/c360/bridgelink/bridgeclient"
	"github.com/c360/bridgelink/configstore"
)

func runBridges(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("bridges requires a verb: list, add, remove")
	}

	verb, rest := args[0], args[1:]
	switch verb {
	case "list":
		return runBridgesList(rest)
	case "add":
		return runBridgesAdd(rest)
	case "remove":
		return runBridgesRemove(rest)
	default:
		return fmt.Errorf("unknown bridges verb: %q", verb)
	}
}

func runBridgesList(args []string) error {
	fs := flag.NewFlagSet("bridges list", flag.ExitOnError)
	configPath := fs.String("config",
		getEnv("BRIDGELINK_CONFIG", ""),
		"Roster file path (env: BRIDGELINK_CONFIG)")
	lf := registerLogFlags(fs)
	fs.Parse(args)
	lf.setup()

	store, err := openRoster(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records := store.List()
	if len(records) == 0 {
		fmt.Printf("No bridges in %s\n", store.Path())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tSECURE\tAUTO")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n", r.ID, r.Name, r.Address(), r.Secure, r.AutoConnect)
	}
	return w.Flush()
}

func runBridgesAdd(args []string) error {
	fs := flag.NewFlagSet("bridges add", flag.ExitOnError)
	configPath := fs.String("config",
		getEnv("BRIDGELINK_CONFIG", ""),
		"Roster file path (env: BRIDGELINK_CONFIG)")
	name := fs.String("name", "", "Display name for the bridge (required)")
	host := fs.String("host", "", "Bridge host (required)")
	port := fs.Int("port", bridgeclient.DefaultPort, "Bridge port")
	secure := fs.Bool("secure", false, "Use TLS")
	apiKey := fs.String("api-key", "", "Bridge API key")
	auto := fs.Bool("auto", false, "Connect automatically when a fleet manager starts")
	lf := registerLogFlags(fs)
	fs.Parse(args)
	lf.setup()

	if *name == "" || *host == "" {
		fs.Usage()
		return fmt.Errorf("-name and -host are required")
	}

	store, err := openRoster(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	record, err := store.Add(configstore.Record{
		Name:        *name,
		Host:        *host,
		Port:        *port,
		Secure:      *secure,
		APIKey:      *apiKey,
		AutoConnect: *auto,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added %s (%s) as %s\n", record.Name, record.Address(), record.ID)
	return nil
}

func runBridgesRemove(args []string) error {
	fs := flag.NewFlagSet("bridges remove", flag.ExitOnError)
	configPath := fs.String("config",
		getEnv("BRIDGELINK_CONFIG", ""),
		"Roster file path (env: BRIDGELINK_CONFIG)")
	id := fs.String("id", "", "Bridge ID to remove")
	name := fs.String("name", "", "Bridge name to remove")
	lf := registerLogFlags(fs)
	fs.Parse(args)
	lf.setup()

	if (*id == "") == (*name == "") {
		return fmt.Errorf("pass exactly one of -id or -name")
	}

	store, err := openRoster(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	target := *id
	if target == "" {
		record, err := store.FindByName(*name)
		if err != nil {
			return err
		}
		target = record.ID
	}

	if err := store.Remove(target); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", target)
	return nil
}
