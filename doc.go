// Package bridgelink provides client-side infrastructure for supervising
// remote bridge hosts: machines on the local network that expose system
// telemetry, media transport, and process control over a websocket and
// REST API.
//
// # Architecture
//
// A bridge host pushes telemetry over one websocket session per client and
// answers one-shot queries over REST. Bridgelink wraps both surfaces and
// adds the supervision layer a longer-lived application needs: reconnecting
// connections, shared subscription state, a latest-value cache, health
// rollups, and a persisted roster of known bridges.
//
//	┌─────────────────────────────────────┐
//	│           fleet.Manager             │  roster-driven supervision
//	│   (one client per roster record)    │  health + metrics fan-in
//	└──────────────────┬──────────────────┘
//	                   │ builds and owns
//	┌──────────────────┴──────────────────┐
//	│         bridgeclient.Client         │  dial, subscribe, reconnect
//	│    (status callbacks, cache sink)   │  backoff with attempt ceiling
//	└──────────────────┬──────────────────┘
//	                   │ ws://host:9990/api/ws
//	┌──────────────────┴──────────────────┐
//	│            bridge host              │  stats, media, processes
//	└─────────────────────────────────────┘
//
// Decoded payloads fan out through the snapshot cache, so any number of
// readers can observe the latest known state of every bridge without
// holding a connection themselves. The restapi client covers the
// request/response side of the same protocol: system inventory, usage
// snapshots, process and media actions, power control, and the SSE stats
// stream.
//
// # Packages
//
// Protocol:
//   - wire: command and event envelopes, payload types, topic names
//   - bridgeclient: websocket connection manager with shared subscriptions
//   - restapi: REST and SSE client for the bridge's HTTP surface
//
// Supervision:
//   - fleet: roster-driven manager running one client per configured bridge
//   - snapshot: latest-value cache keyed by connection and channel
//   - configstore: persisted bridge roster with change watchers
//   - health: per-connection and aggregate health status
//
// Infrastructure:
//   - errors: classified error handling (transient, invalid, fatal)
//   - metric: Prometheus metrics registry
//   - pkg/retry: backoff policies
//
// # Usage Patterns
//
// Single connection:
//
//	client, _ := bridgeclient.New("office", bridgeclient.Config{
//	    Host:   "office.local",
//	    APIKey: key,
//	})
//	sub := client.Subscribe(wire.TopicStats)
//	defer sub.Unsubscribe()
//	if err := client.Connect(ctx); err != nil {
//	    // The client keeps retrying in the background; the error reports
//	    // the first attempt only.
//	}
//
// Supervised fleet from the persisted roster:
//
//	store, _ := configstore.Open(rosterPath)
//	cache, _ := snapshot.New()
//	manager, _ := fleet.New(store, cache)
//	manager.Start(ctx)
//	defer manager.Stop(10 * time.Second)
//
//	entry, ok := cache.Get(bridgeID, bridgeclient.ChannelStats)
//
// One-shot control:
//
//	api, _ := restapi.New(client.Config())
//	usage, _ := api.Usage(ctx)
//	_, _ = api.MediaControl(ctx, wire.ActionPlayPause)
//
// # Binary
//
// cmd/bridgectl drives all of the above from the command line:
//
//	bridgectl bridges add -name office -host office.local -api-key $KEY
//	bridgectl status
//	bridgectl watch stats.cpu media
//	bridgectl process kill -name notepad.exe
package bridgelink
