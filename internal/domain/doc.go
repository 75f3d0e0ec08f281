// Package domain contains the core entities and value objects for swimset.
//
// This package is the innermost layer of the application. It has no
// dependencies on infrastructure concerns (files, HTTP, logging, clocks) and
// holds only data shapes and the small amount of behaviour that belongs to
// them.
//
// # Entities
//
//   - [Athlete]: a swimmer with a lane, a group and an elapsed-time state machine
//   - [Group]: a named set of athletes that can rest together
//   - [Session]: distance, stroke, set count and rest configuration
//   - [Countdown]: a rest countdown owned by one athlete or one group
//   - [FinishEntry]: a pending rank assignment in the finish queue
//   - [Record]: an immutable result produced when a finish is confirmed
//   - [Snapshot]: the exportable state of athletes, groups, sessions and records
//
// All times are expressed in [Centis] (hundredths of a second), the logical
// unit advanced by one clock tick.
package domain
