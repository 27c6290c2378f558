package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-06-10")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", date, want)
	}

	if _, err := ParseDate("10/06/2025"); err == nil {
		t.Error("ParseDate accepted a non-ISO date")
	}
	if _, err := ParseDate("2025-13-01"); err == nil {
		t.Error("ParseDate accepted month 13")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"10:30", 630, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:00am", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(540); got != "09:00" {
		t.Errorf("FormatClock(540) = %q, want 09:00", got)
	}
	if got := FormatClock(630); got != "10:30" {
		t.Errorf("FormatClock(630) = %q, want 10:30", got)
	}
	if got := FormatClock(0); got != "00:00" {
		t.Errorf("FormatClock(0) = %q, want 00:00", got)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd int
		want                           bool
	}{
		{"identical", 600, 660, 600, 660, true},
		{"contained", 600, 660, 615, 645, true},
		{"partial overlap", 600, 660, 630, 690, true},
		{"back to back", 600, 660, 660, 720, false},
		{"disjoint", 600, 660, 720, 780, false},
		{"touching start", 600, 660, 540, 600, false},
	}
	for _, tt := range tests {
		if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
			t.Errorf("%s: Overlaps(%d,%d,%d,%d) = %v, want %v",
				tt.name, tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
		}
	}
}

func TestCombine(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	got, err := Combine(date, "14:30", time.UTC)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	want := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Combine = %v, want %v", got, want)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		birth string
		want  int
	}{
		{"1990-06-10", 35}, // birthday today
		{"1990-06-11", 34}, // birthday tomorrow
		{"1990-06-09", 35},
		{"2025-01-01", 0},
	}
	for _, tt := range tests {
		birth, err := ParseDate(tt.birth)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.birth, err)
		}
		if got := Age(birth, now); got != tt.want {
			t.Errorf("Age(%s) = %d, want %d", tt.birth, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2025-06-10 is a Tuesday
	monday := StartOfWeek(time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC))
	want := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	if !monday.Equal(want) {
		t.Errorf("StartOfWeek = %v, want %v", monday, want)
	}

	// Sunday belongs to the week that started the previous Monday
	sunday := StartOfWeek(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	if !sunday.Equal(want) {
		t.Errorf("StartOfWeek(sunday) = %v, want %v", sunday, want)
	}
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC))
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfMonth = %v, want %v", got, want)
	}
}
