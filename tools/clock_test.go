package tools

import (
	"context"
	"testing"
	"time"
)

func TestClockInvoke(t *testing.T) {
	fixed := time.Date(2024, time.March, 9, 15, 4, 0, 0, time.UTC)
	tool := NewClockToolAt(func() time.Time { return fixed })

	want := "🕐 Saturday, March 09, 2024 at 03:04 PM"
	got, err := tool.Invoke(context.Background(), "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != want {
		t.Fatalf("Invoke() = %q, want %q", got, want)
	}

	// The argument is ignored; time takes no parameters.
	got, err = tool.Invoke(context.Background(), "tomorrow")
	if err != nil {
		t.Fatalf("invoke with argument: %v", err)
	}
	if got != want {
		t.Fatalf("Invoke(\"tomorrow\") = %q, want %q", got, want)
	}
}

func TestClockMorningFormat(t *testing.T) {
	fixed := time.Date(2024, time.December, 2, 9, 30, 0, 0, time.UTC)
	tool := NewClockToolAt(func() time.Time { return fixed })

	got, err := tool.Invoke(context.Background(), "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if want := "🕐 Monday, December 02, 2024 at 09:30 AM"; got != want {
		t.Fatalf("Invoke() = %q, want %q", got, want)
	}
}
