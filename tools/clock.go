// tools/clock.go
package tools

import (
	"context"
	"fmt"
	"time"
)

// timeLayout renders like "Saturday, March 09, 2024 at 03:04 PM".
const timeLayout = "Monday, January 02, 2006 at 03:04 PM"

// ClockTool reports the current date and time.
type ClockTool struct {
	base
	now func() time.Time
}

// NewClockTool creates the time tool using the system clock.
func NewClockTool() *ClockTool {
	return &ClockTool{
		base: base{
			name:        "time",
			description: "Get the current date and time",
			keywords: []string{
				"time", "date", "clock", "when", "now", "today", "current",
			},
		},
		now: time.Now,
	}
}

// NewClockToolAt creates a time tool pinned to the given clock. Tests use
// this to get stable output.
func NewClockToolAt(now func() time.Time) *ClockTool {
	t := NewClockTool()
	t.now = now
	return t
}

// Invoke ignores its argument; the current time takes no parameters.
func (t *ClockTool) Invoke(ctx context.Context, arg string) (string, error) {
	return fmt.Sprintf("🕐 %s", t.now().Format(timeLayout)), nil
}
