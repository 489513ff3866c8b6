package ups

import (
	"bufio"
	"bytes"
	"strings"
)

// unitSuffixes are the units apcupsd appends to numeric values. Longer
// suffixes come first so "Percent Load Capacity" wins over "Percent".
var unitSuffixes = []string{
	"Percent Load Capacity",
	"Percent",
	"Minutes",
	"Seconds",
	"Volts",
	"Watts",
	"Amps",
	"Hz",
	"VA",
	"C",
}

// ParseStatus turns a raw NIS status response into a Snapshot. Lines
// without a colon are ignored.
func ParseStatus(raw []byte) (Snapshot, error) {
	snap := make(Snapshot)

	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		snap[key] = StripUnits(strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(snap) == 0 {
		return nil, ErrEmptyStatus
	}
	return snap, nil
}

// StripUnits removes a trailing " <unit>" from v.
func StripUnits(v string) string {
	for _, unit := range unitSuffixes {
		if s, ok := strings.CutSuffix(v, " "+unit); ok {
			return strings.TrimSpace(s)
		}
	}
	return v
}
