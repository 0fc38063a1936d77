package radar

import (
	"fmt"
	"strings"
)

// PlacementEvent is one recorded layout event during a headless run.
type PlacementEvent struct {
	Frame    int
	Aircraft string  // aircraft ID, or "--" for frame-level events
	Category string  // placement, cluster, callout, hidden
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[F=042] BA2490   placement kind_change      leader → callout
func (ev PlacementEvent) String() string {
	return fmt.Sprintf("[F=%03d] %-8s %-9s %-16s %s",
		ev.Frame, ev.Aircraft, ev.Category, ev.Key, ev.Value)
}

// StabilityLog collects structured layout events during a headless run. It is
// unbounded and machine-readable: the harness writes change events into it
// and tests assert flicker budgets on the counts.
type StabilityLog struct {
	entries []PlacementEvent
	verbose bool
}

// NewStabilityLog creates a StabilityLog. If verbose is true, per-frame
// placement snapshots are also recorded (useful for detailed debugging).
func NewStabilityLog(verbose bool) *StabilityLog {
	return &StabilityLog{verbose: verbose}
}

// Add records a new event.
func (sl *StabilityLog) Add(frame int, aircraft, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, PlacementEvent{
		Frame:    frame,
		Aircraft: aircraft,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an event only when verbose mode is on.
func (sl *StabilityLog) AddVerbose(frame int, aircraft, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(frame, aircraft, category, key, value, numVal)
}

// Entries returns all recorded events.
func (sl *StabilityLog) Entries() []PlacementEvent {
	return sl.entries
}

// Filter returns events matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *StabilityLog) Filter(category, key string) []PlacementEvent {
	var out []PlacementEvent
	for _, ev := range sl.entries {
		if category != "" && ev.Category != category {
			continue
		}
		if key != "" && ev.Key != key {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// FilterAircraft returns events for a specific aircraft ID.
func (sl *StabilityLog) FilterAircraft(id string) []PlacementEvent {
	var out []PlacementEvent
	for _, ev := range sl.entries {
		if ev.Aircraft == id {
			out = append(out, ev)
		}
	}
	return out
}

// FilterFrameRange returns events within [fromFrame, toFrame] inclusive.
func (sl *StabilityLog) FilterFrameRange(fromFrame, toFrame int) []PlacementEvent {
	var out []PlacementEvent
	for _, ev := range sl.entries {
		if ev.Frame >= fromFrame && ev.Frame <= toFrame {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns how many events match the given category and key.
func (sl *StabilityLog) Count(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent event matching category+key, or false if none.
func (sl *StabilityLog) LastOf(category, key string) (PlacementEvent, bool) {
	matches := sl.Filter(category, key)
	if len(matches) == 0 {
		return PlacementEvent{}, false
	}
	return matches[len(matches)-1], true
}

// HasEvent returns true if at least one event matches category, key, and
// value substring.
func (sl *StabilityLog) HasEvent(category, key, valueSubstr string) bool {
	for _, ev := range sl.entries {
		if category != "" && ev.Category != category {
			continue
		}
		if key != "" && ev.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(ev.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *StabilityLog) Format() string {
	var sb strings.Builder
	for _, ev := range sl.entries {
		sb.WriteString(ev.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
