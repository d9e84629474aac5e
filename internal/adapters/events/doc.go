// Package events provides ports.EventSink implementations.
//
//   - [JSONLinesSink] writes one JSON object per event to an io.Writer.
//   - [LogSink] records events through a log.Logger.
//   - [SinkFunc] adapts a plain function.
package events
