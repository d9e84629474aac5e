package cliconfig

import (
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"github.com/fedorg/blendrelay/internal/app"
)

// Log formats accepted by --log-format.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// DefaultWatchDebounce is the default quiet period before a watched batch
// file is resent.
const DefaultWatchDebounce = 100 * time.Millisecond

// Config holds CLI configuration for blendrelay.
type Config struct {
	ListenAddr        string
	ReceiveBufferSize int
	EventName         string

	TargetHost string
	Port       int

	LogLevel  string
	LogFormat string

	WatchDebounce   time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:        app.DefaultListenAddress,
		ReceiveBufferSize: app.DefaultReceiveBufferSize,
		EventName:         app.EventUDPMessage,
		TargetHost:        app.DefaultTargetHost,
		LogLevel:          "info",
		LogFormat:         LogFormatAuto,
		WatchDebounce:     DefaultWatchDebounce,
		ShutdownTimeout:   app.DefaultShutdownTimeout,
	}
}

// Validate checks the configuration for errors.
// Port is checked by the commands that need it.
func (c *Config) Validate() error {
	ap, err := netip.ParseAddrPort(c.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen-addr %q: %w", c.ListenAddr, err)
	}
	if !ap.Addr().Unmap().Is4() {
		return fmt.Errorf("listen-addr %q must be IPv4", c.ListenAddr)
	}
	if addr, err := netip.ParseAddr(c.TargetHost); err != nil || !addr.Unmap().Is4() {
		return fmt.Errorf("target-host %q must be an IPv4 address", c.TargetHost)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ReceiveBufferSize <= 0 {
		return fmt.Errorf("buffer-size must be positive")
	}
	if c.EventName == "" {
		return fmt.Errorf("event-name is required")
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("log-format %q: want auto, console or json", c.LogFormat)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch-debounce must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown-timeout must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
