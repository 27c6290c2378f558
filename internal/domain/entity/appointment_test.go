package entity

import (
	"testing"
	"time"
)

func TestAppointmentStatusTerminal(t *testing.T) {
	terminal := []AppointmentStatus{
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	for _, s := range ActiveAppointmentStatuses {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestAppointmentStatusValid(t *testing.T) {
	if AppointmentStatus("pending").Valid() {
		t.Error("unknown status accepted")
	}
	if !AppointmentStatusNoShow.Valid() {
		t.Error("no_show rejected")
	}
}

func TestAppointmentInterval(t *testing.T) {
	a := &Appointment{Time: "10:00", Duration: 60}
	start, end, err := a.Interval()
	if err != nil {
		t.Fatalf("Interval returned error: %v", err)
	}
	if start != 600 || end != 660 {
		t.Errorf("Interval = [%d, %d), want [600, 660)", start, end)
	}

	bad := &Appointment{Time: "not-a-time", Duration: 60}
	if _, _, err := bad.Interval(); err == nil {
		t.Error("Interval accepted an unparseable time")
	}
}

func TestAppointmentOverlapsWindow(t *testing.T) {
	a := &Appointment{Time: "10:00", Duration: 60}

	tests := []struct {
		name             string
		winStart, winEnd int
		want             bool
	}{
		{"same slot", 600, 660, true},
		{"half hour inside", 630, 660, true},
		{"straddles start", 570, 630, true},
		{"ends at start", 540, 600, false},
		{"starts at end", 660, 720, false},
	}
	for _, tt := range tests {
		if got := a.OverlapsWindow(tt.winStart, tt.winEnd); got != tt.want {
			t.Errorf("%s: OverlapsWindow(%d, %d) = %v, want %v",
				tt.name, tt.winStart, tt.winEnd, got, tt.want)
		}
	}
}

func TestAppointmentEndTime(t *testing.T) {
	a := &Appointment{Time: "10:30", Duration: 45}
	if got := a.EndTime(); got != "11:15" {
		t.Errorf("EndTime = %q, want 11:15", got)
	}
}

func TestAppointmentTransitionGuards(t *testing.T) {
	tests := []struct {
		status          AppointmentStatus
		cancel, resched, complete bool
	}{
		{AppointmentStatusScheduled, true, true, false},
		{AppointmentStatusConfirmed, true, true, false},
		{AppointmentStatusInProgress, false, false, true},
		{AppointmentStatusCompleted, false, false, false},
		{AppointmentStatusCancelled, false, false, false},
		{AppointmentStatusNoShow, false, false, false},
	}
	for _, tt := range tests {
		a := &Appointment{Status: tt.status}
		if got := a.CanBeCancelled(); got != tt.cancel {
			t.Errorf("%s: CanBeCancelled = %v, want %v", tt.status, got, tt.cancel)
		}
		if got := a.CanBeRescheduled(); got != tt.resched {
			t.Errorf("%s: CanBeRescheduled = %v, want %v", tt.status, got, tt.resched)
		}
		if got := a.CanBeCompleted(); got != tt.complete {
			t.Errorf("%s: CanBeCompleted = %v, want %v", tt.status, got, tt.complete)
		}
	}
}

func TestAppointmentStartsAt(t *testing.T) {
	a := &Appointment{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Time: "14:00",
	}
	got, err := a.StartsAt(time.UTC)
	if err != nil {
		t.Fatalf("StartsAt returned error: %v", err)
	}
	want := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", got, want)
	}
}
