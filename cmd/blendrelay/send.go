package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fedorg/blendrelay/internal/adapters/osc"
	"github.com/fedorg/blendrelay/pkg/log"
	"github.com/fedorg/blendrelay/pkg/relay"
	"github.com/fedorg/blendrelay/plugins/batchwatcher"
)

type sendOptions struct {
	file   string
	watch  bool
	dryRun bool
}

func newSendCommand(c *cli) *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send [name=value ...]",
		Short: "Send one batch of blendshape values",
		Long: strings.TrimSpace(`
Send a batch of blendshape values to the target host, one OSC message per
value. Values come from name=value arguments, a JSON batch file, or both;
arguments override file values with the same name.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return c.runSend(ctx, cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&c.cfg.Port, "port", c.cfg.Port, "destination UDP port (overrides the file's port)")
	cmd.Flags().StringVar(&c.cfg.TargetHost, "target-host", c.cfg.TargetHost, "destination IP address")
	cmd.Flags().DurationVar(&c.cfg.WatchDebounce, "watch-debounce", c.cfg.WatchDebounce, "quiet period before a changed file is resent")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", `JSON batch file ({"data":{...},"port":N})`)
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "keep running and resend the file whenever it changes")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the messages instead of sending them")
	return cmd
}

func (c *cli) runSend(ctx context.Context, cmd *cobra.Command, args []string, opts sendOptions) error {
	if opts.watch {
		if opts.file == "" {
			return errors.New("--watch requires --file")
		}
		if len(args) > 0 {
			return errors.New("name=value arguments cannot be combined with --watch")
		}
		return c.watchFile(ctx, opts.file)
	}

	batch, err := c.buildBatch(opts.file, args)
	if err != nil {
		return err
	}

	if opts.dryRun {
		out, err := renderDryRun(batch, osc.NewEncoder())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	r, err := c.newSendOnlyRelay()
	if err != nil {
		return err
	}
	if err := r.SendBlendshapes(ctx, batch); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	c.log.Info().
		Int("entries", batch.Size()).
		Str("target", fmt.Sprintf("%s:%d", c.cfg.TargetHost, batch.Port)).
		Msg("batch sent")
	return nil
}

// buildBatch merges the file (if any) with name=value arguments and
// applies the --port override.
func (c *cli) buildBatch(file string, args []string) (relay.Batch, error) {
	batch := relay.NewBatch(0)
	if file != "" {
		loaded, err := batchwatcher.LoadBatch(file)
		if err != nil {
			return relay.Batch{}, err
		}
		batch.Port = loaded.Port
		for name, value := range loaded.Values {
			batch.Set(name, value)
		}
	}

	values, err := parseAssignments(args)
	if err != nil {
		return relay.Batch{}, err
	}
	for name, value := range values {
		batch.Set(name, value)
	}

	if c.cfg.Port > 0 {
		batch.Port = uint16(c.cfg.Port)
	}
	if batch.Port == 0 {
		return relay.Batch{}, errors.New("destination port is required (--port or the file's port)")
	}
	if batch.Empty() {
		c.log.Warn().Msg("batch is empty, nothing to send")
	}
	return batch, nil
}

// parseAssignments parses name=value arguments into float32 values.
func parseAssignments(args []string) (map[string]float32, error) {
	values := make(map[string]float32, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("argument %q: want name=value", arg)
		}
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
		values[name] = float32(v)
	}
	return values, nil
}

func (c *cli) newSendOnlyRelay(opts ...relay.Option) (*relay.Relay, error) {
	cfg := relay.Config{
		DisableListener: true,
		TargetHost:      c.cfg.TargetHost,
		ShutdownTimeout: c.cfg.ShutdownTimeout,
	}
	opts = append([]relay.Option{relay.WithLogger(log.NewZerologAdapterWithLogger(c.log))}, opts...)
	return relay.New(cfg, opts...)
}

func (c *cli) watchFile(ctx context.Context, file string) error {
	r, err := c.newSendOnlyRelay(batchwatcher.WithBatchWatcher(batchwatcher.Config{
		Path:          file,
		Port:          uint16(c.cfg.Port),
		DebounceDelay: c.cfg.WatchDebounce,
	}))
	if err != nil {
		return err
	}
	if err := r.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	c.log.Info().Str("file", file).Msg("watching batch file, press Ctrl+C to stop")

	<-ctx.Done()
	c.log.Info().Msg("stopping")
	return r.Stop()
}
