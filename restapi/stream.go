package restapi

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/c360/bridgelink/errors"
	"github.com/c360/bridgelink/wire"
)

const streamBufferSize = 32

// StatsStream delivers live stats frames from the bridge's SSE endpoint.
// The stream reopens itself when the server drops it and runs until the
// originating context ends or Close is called.
type StatsStream struct {
	client *Client
	fields []string

	events chan wire.StatsPayload
	errs   chan error
	done   chan struct{}
	cancel context.CancelFunc
}

// StreamStats opens GET /api/stream and delivers each stats frame on the
// returned stream's Events channel. fields restricts the frame to the named
// sections (cpu, memory, gpu, disks, network); empty means everything. The
// first connection is made before returning, so a rejected stream surfaces
// here rather than on the error channel.
func (c *Client) StreamStats(ctx context.Context, fields ...string) (*StatsStream, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	s := &StatsStream{
		client: c,
		fields: fields,
		events: make(chan wire.StatsPayload, streamBufferSize),
		errs:   make(chan error, 8),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	resp, err := s.connect(streamCtx)
	if err != nil {
		cancel()
		return nil, err
	}

	go s.run(streamCtx, resp)
	return s, nil
}

// Events returns the channel stats frames arrive on. It is closed when the
// stream ends.
func (s *StatsStream) Events() <-chan wire.StatsPayload {
	return s.events
}

// Errors returns the channel decode and reconnect failures are reported on.
func (s *StatsStream) Errors() <-chan error {
	return s.errs
}

// Done is closed once the stream has fully shut down.
func (s *StatsStream) Done() <-chan struct{} {
	return s.done
}

// Close tears the stream down and waits for it to finish. No frames are
// delivered after it returns.
func (s *StatsStream) Close() error {
	s.cancel()
	<-s.done
	return nil
}

func (s *StatsStream) connect(ctx context.Context) (*http.Response, error) {
	ref := &url.URL{Path: "/api/stream"}
	if len(s.fields) > 0 {
		q := url.Values{}
		q.Set("fields", strings.Join(s.fields, ","))
		ref.RawQuery = q.Encode()
	}
	endpoint := s.client.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.WrapInvalid(err, "restapi", "StreamStats", "build request")
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	s.client.authorize(req)

	resp, err := s.client.streamClient.Do(req)
	if err != nil {
		return nil, errors.WrapTransient(err, "restapi", "StreamStats", "open stream")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, statusError("StreamStats", resp.StatusCode, body)
	}
	return resp, nil
}

// run consumes the open response and redials whenever the server drops the
// stream. Redial failures that are not transient end the stream; the bridge
// rejecting the stream outright will not fix itself.
func (s *StatsStream) run(ctx context.Context, resp *http.Response) {
	defer close(s.done)
	defer close(s.events)
	defer close(s.errs)

	for {
		err := s.consume(ctx, resp.Body)
		resp.Body.Close()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.report(err)
		}
		s.client.logger.Debug("Stats stream dropped, redialing")

		for {
			select {
			case <-time.After(s.client.redialDelay):
			case <-ctx.Done():
				return
			}

			resp, err = s.connect(ctx)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			s.report(err)
			if !errors.IsTransient(err) {
				return
			}
		}
	}
}

// consume reads SSE lines until the body ends. Frames that fail to decode
// are reported and skipped; a read failure ends the pass.
func (s *StatsStream) consume(ctx context.Context, body io.Reader) error {
	scanner := bufio.NewScanner(body)
	// A frame carrying every disk and interface can outgrow the default
	// token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			// Keepalive comments, event ids, and blank separators.
			continue
		}

		var payload wire.StatsPayload
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &payload); err != nil {
			s.report(errors.WrapInvalid(err, "restapi", "StreamStats", "decode frame"))
			continue
		}

		select {
		case s.events <- payload:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Consumer is not keeping up; drop the frame.
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.WrapTransient(err, "restapi", "StreamStats", "read stream")
	}
	return nil
}

func (s *StatsStream) report(err error) {
	select {
	case s.errs <- err:
	default:
	}
}
