package clip

import (
	"fmt"
	"slices"
)

// Event is a native trigger point on a clip. The animation runtime calls the
// receiver function named Function with Float when playback reaches Time.
type Event struct {
	Function string
	Float    float32
	Time     float32
}

func (e Event) matches(function string, floatParameter, time float32) bool {
	return e.Function == function && e.Float == floatParameter && e.Time == time
}

// Clip is a named, fixed-length animation timeline with a sparse event list.
// Clips are shared assets: every animator playing a clip sees the same
// event list.
type Clip struct {
	Name   string
	Length float32
	Loop   bool

	events []Event
}

// NewClip creates a clip with the given events sorted by time.
func NewClip(name string, length float32, events ...Event) *Clip {
	c := &Clip{Name: name, Length: length}
	c.SetEvents(events)
	return c
}

// Events returns a copy of the clip's events ordered by time.
func (c *Clip) Events() []Event {
	if c == nil {
		return nil
	}
	return slices.Clone(c.events)
}

// SetEvents replaces the event list.
func (c *Clip) SetEvents(events []Event) {
	if c == nil {
		return
	}
	c.events = slices.Clone(events)
	slices.SortStableFunc(c.events, compareTime)
}

// AddEvent inserts an event keeping the list ordered by time. Events at the
// same time keep insertion order.
func (c *Clip) AddEvent(evt Event) {
	if c == nil {
		return
	}
	i, _ := slices.BinarySearchFunc(c.events, evt.Time, func(e Event, t float32) int {
		if e.Time <= t {
			return -1
		}
		return 1
	})
	c.events = slices.Insert(c.events, i, evt)
}

// FindEvent returns the index of the first event matching all three fields,
// or -1.
func (c *Clip) FindEvent(function string, floatParameter, time float32) int {
	if c == nil {
		return -1
	}
	return slices.IndexFunc(c.events, func(e Event) bool {
		return e.matches(function, floatParameter, time)
	})
}

// AddEventIfNotExists adds the event unless one with the same function,
// parameter and time is already present. It reports whether an event was
// added.
func (c *Clip) AddEventIfNotExists(function string, floatParameter, time float32) bool {
	if c == nil || c.FindEvent(function, floatParameter, time) >= 0 {
		return false
	}
	c.AddEvent(Event{Function: function, Float: floatParameter, Time: time})
	return true
}

// RemoveEvent deletes the first event matching all three fields. It reports
// whether one was found.
func (c *Clip) RemoveEvent(function string, floatParameter, time float32) bool {
	idx := c.FindEvent(function, floatParameter, time)
	if idx < 0 {
		return false
	}
	c.events = slices.Delete(c.events, idx, idx+1)
	return true
}

// EventsBetween returns events with from < Time <= to, in time order.
func (c *Clip) EventsBetween(from, to float32) []Event {
	if c == nil || to <= from {
		return nil
	}
	var out []Event
	for _, e := range c.events {
		if e.Time > to {
			break
		}
		if e.Time > from {
			out = append(out, e)
		}
	}
	return out
}

// EventsAt returns events whose time equals t exactly.
func (c *Clip) EventsAt(t float32) []Event {
	if c == nil {
		return nil
	}
	var out []Event
	for _, e := range c.events {
		if e.Time == t {
			out = append(out, e)
		}
	}
	return out
}

// EventKey labels an event position on a clip as "<clip>_<time>".
func EventKey(c *Clip, time float32) string {
	name := ""
	if c != nil {
		name = c.Name
	}
	return Key(name, time)
}

// Key is EventKey for a clip known only by name.
func Key(clipName string, time float32) string {
	return fmt.Sprintf("%s_%v", clipName, time)
}

func compareTime(a, b Event) int {
	switch {
	case a.Time < b.Time:
		return -1
	case a.Time > b.Time:
		return 1
	}
	return 0
}
