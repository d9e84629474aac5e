package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/fedorg/blendrelay/internal/cliconfig"
)

const helpDescription = `
Relay facial blendshape values to a local OSC consumer over UDP, and
forward text datagrams from that consumer as events.

Highlights:
  - One OSC message per blendshape, address /<name>, one float32 argument.
  - Send once from arguments or a JSON file, or keep resending a file on change.
  - Listen on 127.0.0.1:8884 and print every datagram as a JSON line.
  - Configure via file ($HOME/.blendrelay/config.toml), BLENDRELAY_* env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  blendrelay send --port 9000 jawOpen=0.75 eyeBlinkLeft=0.1
  blendrelay send --port 9000 --file face.json --watch
  blendrelay listen --listen-addr 127.0.0.1:8884
  blendrelay monitor --port 9000
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by all subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
}

func main() {
	c := &cli{
		cfg: cliconfig.DefaultConfig(),
		log: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}

	root := newRootCommand(c)
	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("blendrelay")
		os.Exit(1)
	}
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "blendrelay",
		Short:         "Relay blendshape values to a local OSC consumer over UDP",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.blendrelay/config.toml)")
	root.PersistentFlags().StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.cfg.LogFormat, "log-format", c.cfg.LogFormat, "log format (auto, console, json)")
	root.PersistentFlags().DurationVar(&c.cfg.ShutdownTimeout, "shutdown-timeout", c.cfg.ShutdownTimeout, "how long to wait for the listener and plugins to stop")

	root.AddCommand(
		newSendCommand(c),
		newListenCommand(c),
		newMonitorCommand(c),
	)
	return root
}

// loadConfig layers file and environment values under explicitly set
// flags, validates the result and builds the logger.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file %s not found", c.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, c.cfg.LogLevel, c.cfg.LogFormat)
	if err != nil {
		return err
	}
	c.log = logger
	c.log.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}
