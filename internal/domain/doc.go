// Package domain contains the core entities and errors of blendrelay.
//
// This package is the innermost layer. It has no dependencies on sockets,
// codecs or logging and holds only the data that flows through a relay.
//
// # Entities
//
//   - [Batch]: named float values plus the destination port for one send
//   - [Message]: one addressed value, the unit that becomes a datagram
//   - [EntryError]: a send failure tied to a single batch entry
package domain
