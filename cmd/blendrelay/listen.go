package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fedorg/blendrelay/internal/adapters/events"
	"github.com/fedorg/blendrelay/pkg/log"
	"github.com/fedorg/blendrelay/pkg/relay"
)

// EventOSCMessage is the event name monitor prints decoded OSC under.
const EventOSCMessage = "osc-message"

func newListenCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print inbound text datagrams as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			cfg := relay.Config{
				ListenAddr:        c.cfg.ListenAddr,
				ReceiveBufferSize: c.cfg.ReceiveBufferSize,
				EventName:         c.cfg.EventName,
				TargetHost:        c.cfg.TargetHost,
				ShutdownTimeout:   c.cfg.ShutdownTimeout,
			}
			return c.serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&c.cfg.ListenAddr, "listen-addr", c.cfg.ListenAddr, "local address to listen on")
	cmd.Flags().IntVar(&c.cfg.ReceiveBufferSize, "buffer-size", c.cfg.ReceiveBufferSize, "largest datagram read whole; longer ones are truncated")
	cmd.Flags().StringVar(&c.cfg.EventName, "event-name", c.cfg.EventName, "event name written with each payload")
	return cmd
}

func newMonitorCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Print OSC messages arriving on a local port",
		Long: "Bind 127.0.0.1:<port> and print every OSC message as a JSON line. " +
			"Run it where the consumer would listen to see what send produces.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Port <= 0 {
				return fmt.Errorf("--port is required")
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			cfg := relay.Config{
				ListenAddr:        "127.0.0.1:" + strconv.Itoa(c.cfg.Port),
				ReceiveBufferSize: c.cfg.ReceiveBufferSize,
				EventName:         EventOSCMessage,
				TargetHost:        c.cfg.TargetHost,
				ShutdownTimeout:   c.cfg.ShutdownTimeout,
			}
			return c.serve(ctx, cfg, relay.WithOSCDecoder())
		},
	}

	cmd.Flags().IntVar(&c.cfg.Port, "port", c.cfg.Port, "local UDP port to monitor")
	cmd.Flags().IntVar(&c.cfg.ReceiveBufferSize, "buffer-size", c.cfg.ReceiveBufferSize, "largest datagram read whole")
	return cmd
}

// serve runs a relay listener writing events to stdout until ctx is
// canceled or the listener fails.
func (c *cli) serve(ctx context.Context, cfg relay.Config, opts ...relay.Option) error {
	session := uuid.NewString()
	logger := c.log.With().Str("session", session).Logger()

	opts = append([]relay.Option{
		relay.WithLogger(log.NewZerologAdapterWithLogger(logger)),
		relay.WithEventSink(events.NewJSONLinesSink(os.Stdout)),
	}, opts...)

	r, err := relay.New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := r.Start(ctx); err != nil {
		return err
	}
	logger.Info().Str("addr", r.ListenAddr()).Str("event", cfg.EventName).Msg("listener running")

	select {
	case <-ctx.Done():
		logger.Info().Msg("received signal, stopping")
	case <-r.Done():
	}

	runErr := r.Err()
	if err := r.Stop(); err != nil && runErr == nil && !errors.Is(err, relay.ErrNotRunning) {
		return err
	}
	return runErr
}
