// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [MessageEncoder]: serializes a domain message into datagram bytes
//   - [PayloadDecoder]: turns an inbound datagram into forwardable text
//   - [PacketTransport]: binds datagram sockets
//   - [PacketConn]: a bound datagram socket
//   - [EventSink]: receives forwarded payloads on the host side
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with OSC, UDP
// and concrete sinks, and tests substitute scripted fakes.
package ports
