package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/c360/bridgelink/bridgeclient"
	"github.com/c360/bridgelink/wire"
)

// printSink writes every decoded payload as one line on stdout. It
// satisfies bridgeclient.CacheSink, so the watch command rides the same
// fan-out path the snapshot cache does.
type printSink struct{}

func (printSink) Set(_ string, channel string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %-17s %s\n", time.Now().Format(time.TimeOnly), channel, data)
	return nil
}

// runWatch connects over websocket, subscribes to the requested topics, and
// prints events until interrupted.
func runWatch(args []string) error {
	conn := parseConn("watch", args)

	topics := conn.args
	if len(topics) == 0 {
		topics = []string{wire.TopicStats, wire.TopicMedia, wire.TopicProcesses}
	}

	cfg, err := conn.clientConfig()
	if err != nil {
		return err
	}

	client, err := bridgeclient.New(appName, cfg,
		bridgeclient.WithLogger(slog.Default()),
		bridgeclient.WithCacheSink(printSink{}),
		bridgeclient.WithStatusHandler(func(status bridgeclient.Status) {
			slog.Info("Connection status changed", "status", status.String())
		}),
		bridgeclient.WithErrorHandler(func(te bridgeclient.TransportError) {
			slog.Warn("Bridge reported an error", "code", te.Code, "message", te.Message)
		}))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Register interest before dialing so the first sync after the
	// connection opens carries the whole topic set.
	subs := make([]*bridgeclient.Subscription, 0, len(topics))
	for _, topic := range topics {
		subs = append(subs, client.Subscribe(topic))
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect()

	slog.Info("Watching bridge", "topics", topics)
	<-ctx.Done()
	return nil
}
