// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"encoding/binary"
	"hash/crc32"
	"sync"
	"time"
)

// EventKind distinguishes keyboard from mouse events for the user-event
// collector.
type EventKind uint8

const (
	EventKeyboard EventKind = iota
	EventMouseMove
)

// InputEvent is a single qualifying keyboard or mouse-move event as handed
// to the user-event collector by the platform hook.
type InputEvent struct {
	Kind EventKind
	Code uint32 // key code, or packed (x<<16|y) for mouse moves
	At   time.Time
}

// userEventSource coalesces identical consecutive keys and redundant
// mouse-move events at the same coordinate, computing CRC-32 of
// (event fields || elapsed-since-previous-event) for each qualifying event.
// Collection is opt-in (pool.Config.UserEvents) and bounded by
// pool.Config.UserEventBudget events per fetch.
//
// The platform-specific keyboard/mouse hook that produces events is treated
// as a plugin: Push is the capability handed to that hook, and the
// collector drains whatever has accumulated since the last fetch.
type userEventSource struct {
	mu       sync.Mutex
	events   []InputEvent
	lastKey  uint32
	lastMove uint32
	hasLast  bool
	budget   int
}

// NewUserEventSource returns a user-event entropy source with the given
// per-fetch event budget.
func NewUserEventSource(budget int) *userEventSource {
	if budget <= 0 {
		budget = defaultUserEventBudget
	}
	return &userEventSource{budget: budget}
}

func (s *userEventSource) Name() string { return "user-event" }

func (s *userEventSource) Available() bool { return true }

// Push records one platform input event for later mixing. It qualifies the
// event: consecutive identical keys are coalesced, and redundant
// mouse-move events at the same coordinate are ignored.
func (s *userEventSource) Push(ev InputEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case EventKeyboard:
		if s.hasLast && s.lastKey == ev.Code {
			return
		}
		s.lastKey = ev.Code
		s.hasLast = true
	case EventMouseMove:
		if s.lastMove == ev.Code {
			return
		}
		s.lastMove = ev.Code
	}

	if len(s.events) >= s.budget {
		return
	}
	s.events = append(s.events, ev)
}

// Fill drains every queued event (at most budget) and writes the
// CRC-32(fields || elapsed-since-previous) of each, as one 32-bit word, into
// buf until buf is full; drained events beyond len(buf)/4 are discarded.
// Fewer bytes than len(buf) are written if fewer events are queued; the
// remainder of buf is left untouched. Fill returns StatusOK when at least
// one word was written, and the pool then adds the whole of buf.
func (s *userEventSource) Fill(buf []byte) Status {
	s.mu.Lock()
	events := s.events
	s.events = nil
	s.mu.Unlock()

	if len(events) == 0 {
		return StatusUnavailable
	}

	offset := 0
	var prevAt time.Time
	var word [4]byte
	for _, ev := range events {
		if offset+4 > len(buf) {
			break
		}
		var fields [13]byte
		fields[0] = byte(ev.Kind)
		binary.LittleEndian.PutUint32(fields[1:5], ev.Code)
		var elapsed int64
		if !prevAt.IsZero() {
			elapsed = ev.At.Sub(prevAt).Nanoseconds()
		}
		binary.LittleEndian.PutUint64(fields[5:13], uint64(elapsed))
		prevAt = ev.At

		binary.LittleEndian.PutUint32(word[:], crc32.ChecksumIEEE(fields[:]))
		copy(buf[offset:offset+4], word[:])
		offset += 4
	}
	if offset == 0 {
		return StatusUnavailable
	}
	return StatusOK
}
