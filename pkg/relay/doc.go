// Package relay provides an embeddable blendshape relay.
//
// A Relay sends batches of named float values as OSC messages over UDP to a
// consumer on the loopback interface, one datagram per value. It can also
// listen for inbound text datagrams and forward them to an [EventSink].
//
// # Sending
//
//	r, err := relay.New(relay.Config{DisableListener: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = r.SendBlendshapes(ctx, relay.Batch{
//	    Values: map[string]float32{"jawOpen": 0.75},
//	    Port:   9000,
//	})
//
// The first entry that fails stops the batch. The returned error is an
// [*EntryError] naming that entry; entries sent before it are not undone.
//
// # Listening
//
//	r, err := relay.New(relay.Config{}, relay.WithEventSink(sink))
//	if err := r.Start(ctx); err != nil { // binds 127.0.0.1:8884
//	    log.Fatal(err)
//	}
//	defer r.Stop()
//
// Start binds synchronously, so an address already in use is reported by
// Start itself. Receive errors after that are logged and retried; the
// listener only stops on Stop, context cancellation, a closed socket or a
// sink error.
//
// # Lifecycle States
//
// A Relay is in one of [StateStopped], [StateStarting], [StateRunning],
// [StateStopping] or [StateCrashed]. Use [Relay.Status] to query it.
//
// # Plugins
//
// Plugins run alongside the relay and may send batches through it:
//
//	import "github.com/fedorg/blendrelay/plugins/batchwatcher"
//
//	r, err := relay.New(cfg, batchwatcher.WithBatchWatcher(batchwatcher.Config{
//	    Path: "/tmp/face.json",
//	}))
package relay
