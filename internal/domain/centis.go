package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Centis is a time value in hundredths of a second.
// One clock tick advances running timers by exactly one Centis.
type Centis int64

const (
	// Tick is the logical time added by a single clock tick.
	Tick Centis = 1

	CentisPerSecond Centis = 100
	CentisPerMinute Centis = 60 * CentisPerSecond
)

// Seconds converts whole seconds to Centis.
func Seconds(s int) Centis {
	return Centis(s) * CentisPerSecond
}

// Duration converts c to a time.Duration.
func (c Centis) Duration() time.Duration {
	return time.Duration(c) * 10 * time.Millisecond
}

// String formats c as MM:SS.CC. Negative values keep a leading minus sign.
func (c Centis) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	minutes := c / CentisPerMinute
	seconds := (c % CentisPerMinute) / CentisPerSecond
	cs := c % CentisPerSecond
	return fmt.Sprintf("%s%02d:%02d.%02d", sign, minutes, seconds, cs)
}

// ParseCentis parses a time written as MM:SS.CC (the hundredths part is optional).
func ParseCentis(s string) (Centis, error) {
	s = strings.TrimSpace(s)
	minStr, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("parse time %q: want MM:SS.CC: %w", s, ErrInvalidInput)
	}
	secStr, csStr, _ := strings.Cut(rest, ".")

	minutes, err := parseField(minStr)
	if err != nil {
		return 0, fmt.Errorf("parse time %q minutes: %w", s, err)
	}
	seconds, err := parseField(secStr)
	if err != nil {
		return 0, fmt.Errorf("parse time %q seconds: %w", s, err)
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("parse time %q: seconds out of range: %w", s, ErrInvalidInput)
	}
	var cs int
	if csStr != "" {
		if len(csStr) > 2 {
			return 0, fmt.Errorf("parse time %q: at most two hundredths digits: %w", s, ErrInvalidInput)
		}
		cs, err = parseField(csStr)
		if err != nil {
			return 0, fmt.Errorf("parse time %q hundredths: %w", s, err)
		}
		if len(csStr) == 1 {
			cs *= 10
		}
	}
	return Centis(minutes)*CentisPerMinute + Centis(seconds)*CentisPerSecond + Centis(cs), nil
}

func parseField(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a non-negative number: %w", s, ErrInvalidInput)
	}
	return n, nil
}
