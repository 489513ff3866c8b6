package schema

// Result is the output of Transform.
type Result struct {
	Tags   map[string]string
	Fields map[string]any

	// NominalPower is the wattage WATTS was derived from: the snapshot's
	// NOMPOWER when present, otherwise the fallback.
	NominalPower int64
	// NominalPowerMissing is set when NominalPower is zero, meaning neither
	// the UPS nor the operator supplied one.
	NominalPowerMissing bool
	Watts               int64

	// Skipped lists recognised keys whose value failed conversion.
	Skipped map[string]error
}

// Transform converts a status snapshot into tags and fields. Unrecognised
// keys are dropped silently so new apcupsd versions do not break the
// exporter. It has no side effects.
func Transform(snap map[string]string, s *Schema, fallbackNominal int64) Result {
	res := Result{
		Tags:   make(map[string]string),
		Fields: make(map[string]any),
	}

	for key, raw := range snap {
		route := s.Route(key)
		if route == Drop {
			continue
		}

		kind, _ := s.Kind(key)
		val, err := kind.Convert(raw)
		if err != nil {
			if res.Skipped == nil {
				res.Skipped = make(map[string]error)
			}
			res.Skipped[key] = err
			continue
		}

		if route == Tag {
			res.Tags[key] = val.(string)
		} else {
			res.Fields[key] = val
		}
	}

	res.NominalPower = fallbackNominal
	if v, ok := numeric(res.Fields[KeyNominalPower]); ok {
		res.NominalPower = int64(v)
	}
	res.NominalPowerMissing = res.NominalPower == 0

	load, _ := numeric(res.Fields[KeyLoadPercent])
	res.Watts = int64(float64(res.NominalPower) * load * 0.01)
	res.Fields[KeyWatts] = res.Watts

	return res
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
