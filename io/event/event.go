// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains the portable event vocabulary
// delivered by windows.
//
// New event types may be added over time; consumers must
// ignore events they do not recognize.
package event

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}
