// Package ports defines the interfaces (ports) that connect the timing engine
// to infrastructure adapters.
//
// The engine never touches storage, audio, the network or the operating
// system directly. Everything it needs from the outside is expressed here and
// implemented under internal/adapters.
//
// # Port Interfaces
//
//   - [Notifier]: fire-and-forget cues (start, split, finish, confirm, rest)
//   - [RecordSink]: persistence of confirmed records
//   - [RecordSender]: batch delivery of records to a remote store
//   - [SnapshotStore]: export and wholesale import of engine state
//   - [Logger]: structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) provide the file system, HTTP, NATS, Postgres
// and zerolog implementations.
package ports
