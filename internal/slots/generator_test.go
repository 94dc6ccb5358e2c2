package slots

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		endTime   string
		duration  int
		want      []string
	}{
		{
			name:      "exact division",
			startTime: "09:00",
			endTime:   "11:00",
			duration:  30,
			want:      []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:      "last slot overruns window end",
			startTime: "09:00",
			endTime:   "10:00",
			duration:  45,
			want:      []string{"09:00", "09:45"},
		},
		{
			name:      "single slot window",
			startTime: "14:00",
			endTime:   "14:30",
			duration:  30,
			want:      []string{"14:00"},
		},
		{
			name:      "duration longer than window",
			startTime: "09:00",
			endTime:   "09:15",
			duration:  60,
			want:      []string{"09:00"},
		},
		{
			name:      "hour rollover is zero padded",
			startTime: "08:50",
			endTime:   "09:20",
			duration:  15,
			want:      []string{"08:50", "09:05"},
		},
		{
			name:      "early morning stays zero padded",
			startTime: "07:00",
			endTime:   "08:00",
			duration:  20,
			want:      []string{"07:00", "07:20", "07:40"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.startTime, tt.endTime, tt.duration)
			if err != nil {
				t.Fatalf("Generate(%q, %q, %d) returned error: %v", tt.startTime, tt.endTime, tt.duration, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Generate(%q, %q, %d) = %v, want %v", tt.startTime, tt.endTime, tt.duration, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("slot %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		endTime   string
		duration  int
	}{
		{name: "zero duration", startTime: "09:00", endTime: "10:00", duration: 0},
		{name: "negative duration", startTime: "09:00", endTime: "10:00", duration: -15},
		{name: "end equals start", startTime: "09:00", endTime: "09:00", duration: 30},
		{name: "end before start", startTime: "10:00", endTime: "09:00", duration: 30},
		{name: "malformed start", startTime: "9am", endTime: "10:00", duration: 30},
		{name: "malformed end", startTime: "09:00", endTime: "25:99", duration: 30},
		{name: "missing colon", startTime: "0900", endTime: "10:00", duration: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.startTime, tt.endTime, tt.duration)
			if err == nil {
				t.Errorf("Generate(%q, %q, %d) = %v, want error", tt.startTime, tt.endTime, tt.duration, got)
			}
		})
	}
}

// Slot spacing and membership hold for any window and duration, so the
// resolver can subtract booked times by string equality alone.
func TestGenerateSpacingAndBounds(t *testing.T) {
	durations := []int{5, 15, 20, 30, 45, 60, 90}
	windows := []struct{ start, end string }{
		{"08:00", "12:00"},
		{"09:30", "10:40"},
		{"00:00", "23:59"},
		{"13:15", "13:45"},
	}

	for _, w := range windows {
		for _, d := range durations {
			name := fmt.Sprintf("%s-%s/%d", w.start, w.end, d)
			t.Run(name, func(t *testing.T) {
				got, err := Generate(w.start, w.end, d)
				if err != nil {
					t.Fatalf("Generate returned error: %v", err)
				}
				if len(got) == 0 {
					t.Fatal("expected at least one slot")
				}
				if got[0] != w.start {
					t.Errorf("first slot = %q, want window start %q", got[0], w.start)
				}

				end := mustMinutes(t, w.end)
				for i, slot := range got {
					min := mustMinutes(t, slot)
					if min >= end {
						t.Errorf("slot %q starts at or after window end %q", slot, w.end)
					}
					if i > 0 {
						prev := mustMinutes(t, got[i-1])
						if min-prev != d {
							t.Errorf("spacing between %q and %q = %d, want %d", got[i-1], slot, min-prev, d)
						}
					}
				}

				span := end - mustMinutes(t, w.start)
				wantCount := span / d
				if span%d != 0 {
					wantCount++
				}
				if len(got) != wantCount {
					t.Errorf("slot count = %d, want %d", len(got), wantCount)
				}
			})
		}
	}
}

func mustMinutes(t *testing.T, clock string) int {
	t.Helper()
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		t.Fatalf("bad clock string %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		t.Fatalf("bad hours in %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		t.Fatalf("bad minutes in %q", clock)
	}
	return h*60 + m
}
