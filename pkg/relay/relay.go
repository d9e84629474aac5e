package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fedorg/blendrelay/internal/adapters/events"
	"github.com/fedorg/blendrelay/internal/app"
	"github.com/fedorg/blendrelay/internal/domain"
	"github.com/fedorg/blendrelay/pkg/log"
)

// Relay sends blendshape batches and optionally listens for inbound text
// datagrams. Use New to create one. Sending does not depend on the
// lifecycle; Start and Stop only govern the listener and plugins.
type Relay struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	emitter   *eventEmitterWrapper
	sender    *app.Sender
	listener  *app.Listener
	logger    log.Logger

	mu          sync.RWMutex
	cancel      context.CancelFunc
	conn        PacketConn
	done        chan struct{}
	err         error
	initialized []Plugin
}

// New creates a Relay in StateStopped.
// Returns an error wrapping ErrInvalidConfig if cfg is invalid.
func New(cfg Config, opts ...Option) (*Relay, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.sink == nil {
		o.sink = events.NewLogSink(o.logger)
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}
	sender := app.NewSender(app.SenderConfig{TargetHost: cfg.TargetHost}, o.transport, o.encoder, o.logger)

	var listener *app.Listener
	if !cfg.DisableListener {
		listener = app.NewListener(app.ListenerConfig{
			Address:    cfg.ListenAddr,
			BufferSize: cfg.ReceiveBufferSize,
			EventName:  cfg.EventName,
		}, o.transport, o.decoder, o.sink, o.logger)
	}

	done := make(chan struct{})
	close(done)

	return &Relay{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(o.logger, emitter),
		emitter:   emitter,
		sender:    sender,
		listener:  listener,
		logger:    o.logger,
		done:      done,
	}, nil
}

// SendBlendshapes sends every entry of batch to the target host at
// batch.Port, one OSC datagram per entry, from a fresh ephemeral socket.
//
// An empty batch sends nothing and returns nil. Port 0 fails with
// ErrAddress before any socket is bound. A failing entry stops the batch
// and is returned as an *EntryError.
func (r *Relay) SendBlendshapes(ctx context.Context, batch Batch) error {
	start := time.Now()
	err := r.sender.Send(ctx, batch)
	if err != nil {
		var entryErr *EntryError
		var entry string
		if errors.As(err, &entryErr) {
			entry = entryErr.Name
		}
		r.emitter.onSendError(err, entry, batch.Port)
		return err
	}
	r.emitter.onBatchSent(batch.Size(), batch.Port, time.Since(start))
	return nil
}

// Start initializes plugins and, unless the listener is disabled, binds
// the listen address and begins forwarding in the background.
// Returns ErrAlreadyRunning if already started and an error wrapping
// ErrBind if the address cannot be bound.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := r.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.lifecycle.SetCancel(cancel)
	r.err = nil
	// Plugins from a crashed run are still up.
	if len(r.initialized) > 0 {
		r.shutdownPlugins()
	}

	var conn PacketConn
	if r.listener != nil {
		c, err := r.listener.Bind(runCtx)
		if err != nil {
			r.logger.Error("bind failed", log.String("addr", r.config.ListenAddr), log.Err(err))
			cancel()
			r.err = err
			_ = r.lifecycle.TransitionTo(app.StateCrashed, "bind failed")
			return err
		}
		conn = c
	}

	pluginCfg := PluginConfig{Logger: r.logger, Sender: r}
	for _, p := range r.opts.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			r.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			if conn != nil {
				_ = conn.Close()
			}
			r.shutdownPlugins()
			r.err = err
			_ = r.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		r.initialized = append(r.initialized, p)
		r.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	if err := r.lifecycle.TransitionTo(app.StateRunning, "started"); err != nil {
		cancel()
		return err
	}

	r.conn = conn
	r.done = make(chan struct{})
	if conn == nil {
		go func(done chan struct{}) {
			<-runCtx.Done()
			close(done)
		}(r.done)
		return nil
	}

	r.lifecycle.AddWorker()
	go func(done chan struct{}) {
		defer close(done)
		defer r.lifecycle.WorkerDone()

		err := r.listener.Serve(runCtx, conn)
		if err != nil {
			r.logger.Error("listener stopped", log.Err(err))
			r.mu.Lock()
			r.err = err
			r.conn = nil
			r.mu.Unlock()
			cancel()
			_ = r.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	}(r.done)

	return nil
}

// Stop stops the listener and shuts plugins down in reverse order.
// Returns ErrNotRunning if not started and ErrShutdownTimeout if the
// listener did not exit within Config.ShutdownTimeout.
func (r *Relay) Stop() error {
	r.mu.Lock()

	if !r.lifecycle.CanStop() {
		// A crashed listener leaves plugins up until Stop.
		if len(r.initialized) > 0 {
			r.shutdownPlugins()
		}
		r.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := r.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		r.mu.Unlock()
		return err
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	err := r.lifecycle.WaitWithTimeout(r.config.ShutdownTimeout)

	r.mu.Lock()
	r.shutdownPlugins()
	r.conn = nil
	r.mu.Unlock()

	if err != nil {
		_ = r.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = r.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// shutdownPlugins shuts initialized plugins down in reverse order.
// Callers hold r.mu.
func (r *Relay) shutdownPlugins() {
	ctx := context.Background()
	for i := len(r.initialized) - 1; i >= 0; i-- {
		p := r.initialized[i]
		if err := p.Shutdown(ctx); err != nil {
			r.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			continue
		}
		r.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
	}
	r.initialized = nil
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (r *Relay) Status() State {
	return convertState(r.lifecycle.State())
}

// ListenAddr returns the address the listener is bound to, or "" when it
// is not running. Useful with a ":0" listen address.
func (r *Relay) ListenAddr() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil {
		return ""
	}
	return r.conn.LocalAddr().String()
}

// Done returns a channel closed when the background work started by the
// last Start has ended.
func (r *Relay) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

// Err returns the error that ended the last run, or nil.
func (r *Relay) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}
