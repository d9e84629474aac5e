package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "BLENDRELAY_"

// ApplyEnvConfig applies BLENDRELAY_* environment variables to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(key string) string { return os.Getenv(EnvPrefix + key) }

	s.setString("listen-addr", env("LISTEN_ADDR"), &cfg.ListenAddr)
	s.setString("target-host", env("TARGET_HOST"), &cfg.TargetHost)
	s.setString("event-name", env("EVENT_NAME"), &cfg.EventName)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", env("LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setIntFromString("port", env("PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("buffer-size", env("BUFFER_SIZE"), &cfg.ReceiveBufferSize); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", env("WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", env("SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}
