// Package log provides the logging abstraction used across blendrelay.
//
// Library code logs through the [Logger] interface only. A zerolog-backed
// implementation and a no-op implementation are provided:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	logger.Info("batch sent", log.Int("entries", 52), log.Int("port", 9000))
//
// Embedders with their own logging stack implement the four level methods
// and pass the result to relay.WithLogger.
package log
