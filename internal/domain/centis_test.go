package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCentis_String(t *testing.T) {
	tests := []struct {
		in   Centis
		want string
	}{
		{0, "00:00.00"},
		{1234, "00:12.34"},
		{6000, "01:00.00"},
		{61 * CentisPerMinute, "61:00.00"},
		{-150, "-00:01.50"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Centis(%d).String() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseCentis(t *testing.T) {
	tests := []struct {
		in      string
		want    Centis
		wantErr bool
	}{
		{"00:12.34", 1234, false},
		{"1:05", 6500, false},
		{"0:30.5", 3050, false},
		{" 02:00.00 ", 12000, false},
		{"12.34", 0, true},
		{"aa:10.00", 0, true},
		{"00:75.00", 0, true},
		{"00:10.123", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCentis(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCentis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseCentis(%q) error = %v, want ErrInvalidInput", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCentis(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCentis_Duration(t *testing.T) {
	if got := Seconds(60).Duration(); got != time.Minute {
		t.Errorf("Seconds(60).Duration() = %v, want 1m", got)
	}
}

func TestCountdown_Advance(t *testing.T) {
	c := NewCountdown(AthleteSubject("a"), 3)

	if c.Advance(Tick) || c.Advance(Tick) {
		t.Fatal("countdown elapsed early")
	}
	if !c.Advance(Tick) {
		t.Fatal("countdown did not report elapse on reaching zero")
	}
	if c.State != Elapsed || c.Remaining != 0 {
		t.Fatalf("countdown = %+v, want elapsed at zero", c)
	}
	if c.Advance(Tick) {
		t.Error("elapsed countdown reported elapse twice")
	}
}

func TestCountdown_ClampsOvershoot(t *testing.T) {
	c := NewCountdown(GroupSubject("g"), 2)
	if !c.Advance(5) {
		t.Fatal("expected elapse")
	}
	if c.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", c.Remaining)
	}
}

func TestRestSubject_DisjointKinds(t *testing.T) {
	if AthleteSubject("42") == GroupSubject("42") {
		t.Error("athlete and group subjects with equal ids compare equal")
	}
}

func TestStatus_TextRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusReady, StatusRunning, StatusFinished, StatusResting} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var got Status
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", b, err)
		}
		if got != s {
			t.Errorf("round trip %v = %v", s, got)
		}
	}
	var s Status
	if err := s.UnmarshalText([]byte("swimming")); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestCompareToTarget(t *testing.T) {
	target := Centis(3000)

	cmp, ok := CompareToTarget(2850, &target)
	if !ok {
		t.Fatal("expected comparison")
	}
	if !cmp.Faster || cmp.Difference != 150 || cmp.Percentage != 5 {
		t.Errorf("comparison = %+v", cmp)
	}

	if _, ok := CompareToTarget(2850, nil); ok {
		t.Error("expected no comparison without a target")
	}
}

func TestSession_Normalize(t *testing.T) {
	s := Session{Distance: 0, TotalSets: 0, RestSeconds: -5, CurrentSet: 9}
	s.Normalize()

	if s.Distance != 1 || s.TotalSets != 1 || s.RestSeconds != 0 || s.CurrentSet != 1 {
		t.Errorf("normalized session = %+v", s)
	}
	if s.Stroke != StrokeFreestyle || s.RestMode != RestIndividual {
		t.Errorf("normalized defaults = %s/%s", s.Stroke, s.RestMode)
	}
}
