package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/notebook/pkg/core"
)

const dateLayout = "2006-01-02 15:04"

var inputLayouts = []string{time.RFC3339, dateLayout, "2006-01-02T15:04", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use %q)", s, dateLayout)
}

func parseDates(values []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, err := parseDate(v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

var shifts = map[string]core.Shift{
	"5m":  core.Plus5Minutes,
	"15m": core.Plus15Minutes,
	"1h":  core.PlusHour,
	"1d":  core.PlusDay,
	"1w":  core.PlusWeek,
	"1M":  core.PlusMonth,
}

func parseShift(s string) (core.Shift, error) {
	shift, ok := shifts[s]
	if !ok {
		return core.Shift{}, fmt.Errorf("unknown shift %q (use 5m, 15m, 1h, 1d, 1w or 1M)", s)
	}
	return shift, nil
}
