// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package spnav

import (
	"encoding/binary"
	"fmt"
)

// EventType distinguishes motion from button events.
type EventType int

const (
	// EventMotion is a 6-DoF motion sample.
	EventMotion EventType = iota + 1
	// EventButton is a button press or release.
	EventButton
)

// String implements fmt.Stringer.
func (t EventType) String() string {
	switch t {
	case EventMotion:
		return "motion"
	case EventButton:
		return "button"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Wire codes carried in the first word of every packet.
const (
	wireMotion  int32 = 0
	wirePress   int32 = 1
	wireRelease int32 = 2
)

// PacketSize is the size in bytes of one daemon packet: eight int32 words.
const PacketSize = 8 * 4

// Motion is a translation/rotation sample. Period is the number of
// milliseconds since the previous motion event.
type Motion struct {
	X, Y, Z    int
	RX, RY, RZ int
	Period     int
}

// Button is a button state change.
type Button struct {
	Press bool
	Num   int
}

// Event is a single device event. Only the field matching Type is set.
type Event struct {
	Type   EventType
	Motion Motion
	Button Button
}

// MotionEvent builds a motion event.
func MotionEvent(x, y, z, rx, ry, rz, period int) Event {
	return Event{Type: EventMotion, Motion: Motion{X: x, Y: y, Z: z, RX: rx, RY: ry, RZ: rz, Period: period}}
}

// ButtonEvent builds a button event.
func ButtonEvent(num int, press bool) Event {
	return Event{Type: EventButton, Button: Button{Press: press, Num: num}}
}

// MarshalBinary encodes the event as a daemon packet.
func (e Event) MarshalBinary() ([]byte, error) {
	var words [8]int32
	switch e.Type {
	case EventMotion:
		m := e.Motion
		words = [8]int32{wireMotion, int32(m.X), int32(m.Y), int32(m.Z), int32(m.RX), int32(m.RY), int32(m.RZ), int32(m.Period)}
	case EventButton:
		words[0] = wireRelease
		if e.Button.Press {
			words[0] = wirePress
		}
		words[1] = int32(e.Button.Num)
	default:
		return nil, fmt.Errorf("cannot encode %s", e.Type)
	}

	buf := make([]byte, PacketSize)
	for i, w := range words {
		binary.NativeEndian.PutUint32(buf[i*4:], uint32(w))
	}
	return buf, nil
}

// UnmarshalBinary decodes a daemon packet. Any non-zero type word is a
// button event; 1 means pressed.
func (e *Event) UnmarshalBinary(data []byte) error {
	if len(data) != PacketSize {
		return fmt.Errorf("spnav packet must be %d bytes, got %d", PacketSize, len(data))
	}

	var words [8]int
	for i := range words {
		words[i] = int(int32(binary.NativeEndian.Uint32(data[i*4:])))
	}

	if int32(words[0]) == wireMotion {
		*e = MotionEvent(words[1], words[2], words[3], words[4], words[5], words[6], words[7])
		return nil
	}
	*e = ButtonEvent(words[1], int32(words[0]) == wirePress)
	return nil
}
