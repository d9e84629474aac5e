// Package batchwatcher provides a relay plugin that sends a blendshape
// batch from a JSON file every time the file changes.
//
// The file has the shape
//
//	{"data": {"jawOpen": 0.75, "eyeBlinkLeft": 0.1}, "port": 9000}
package batchwatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fedorg/blendrelay/pkg/log"
	"github.com/fedorg/blendrelay/pkg/relay"
)

// DefaultDebounceDelay is the quiet period after a change before sending.
const DefaultDebounceDelay = 100 * time.Millisecond

// Plugin watches a batch file and sends it through the relay.
type Plugin struct {
	mu sync.Mutex

	path          string
	port          uint16
	debounceDelay time.Duration

	logger   relay.Logger
	sender   relay.BatchSender
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the batch watcher plugin.
type Config struct {
	// Path is the JSON batch file to watch. Required.
	Path string

	// Port overrides the port stored in the file when non-zero.
	Port uint16

	// DebounceDelay is how long to wait after the last change before sending.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// New creates a batch watcher plugin.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	return &Plugin{
		path:          cfg.Path,
		port:          cfg.Port,
		debounceDelay: cfg.DebounceDelay,
	}
}

// WithBatchWatcher returns a relay Option that registers the plugin.
//
//	r, err := relay.New(cfg, batchwatcher.WithBatchWatcher(batchwatcher.Config{
//	    Path: "face.json",
//	}))
func WithBatchWatcher(cfg Config) relay.Option {
	return relay.WithPlugin(New(cfg))
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "batchwatcher"
}

// Initialize sends the file once if it exists and starts watching it.
func (p *Plugin) Initialize(ctx context.Context, cfg relay.PluginConfig) error {
	if p.path == "" {
		return errors.New("batchwatcher: path is required")
	}
	if cfg.Sender == nil {
		return errors.New("batchwatcher: no sender")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("batchwatcher: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("batchwatcher: watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	p.mu.Lock()
	p.logger = logger
	p.sender = cfg.Sender
	p.cancel = cancel
	p.mu.Unlock()

	if _, err := os.Stat(p.path); err == nil {
		p.sendFile(watchCtx)
	}

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	p.logger.Info("batch watcher started",
		log.String("path", p.path))
	return nil
}

// Shutdown stops watching and waits for a pending send.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	if p.debounce != nil && p.debounce.Stop() {
		p.wg.Done()
	}
	p.debounce = nil
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceSend(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("batch watcher error", log.Err(err))
		}
	}
}

// debounceSend restarts the debounce timer. A fired timer holds a wg slot
// until its send completes.
func (p *Plugin) debounceSend(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if p.debounce != nil && p.debounce.Stop() {
		p.wg.Done()
	}
	p.wg.Add(1)
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		defer p.wg.Done()
		p.sendFile(ctx)
	})
}

func (p *Plugin) sendFile(ctx context.Context) {
	batch, err := LoadBatch(p.path)
	if err != nil {
		p.logger.Warn("batch file unreadable",
			log.String("path", p.path),
			log.Err(err))
		return
	}
	if p.port != 0 {
		batch.Port = p.port
	}
	if err := p.sender.SendBlendshapes(ctx, batch); err != nil {
		p.logger.Error("batch send failed",
			log.String("path", p.path),
			log.Err(err))
		return
	}
	p.logger.Debug("batch sent",
		log.String("path", p.path),
		log.Int("entries", batch.Size()))
}

// LoadBatch reads a batch from a JSON file.
func LoadBatch(path string) (relay.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return relay.Batch{}, err
	}
	var batch relay.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return relay.Batch{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return batch, nil
}

var _ relay.Plugin = (*Plugin)(nil)
