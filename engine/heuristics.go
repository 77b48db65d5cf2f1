package engine

import "math"

const fnv64Offset = 1469598103934665603
const fnv64Prime = 1099511628211

// HeuristicConfig holds the point awards used by the evaluator. A run is
// "open" when neither end touches an opposing stone.
type HeuristicConfig struct {
	Five          float64 `json:"five"`
	Open4         float64 `json:"open_4"`
	Closed4       float64 `json:"closed_4"`
	Open3         float64 `json:"open_3"`
	Closed3       float64 `json:"closed_3"`
	Open2         float64 `json:"open_2"`
	Closed2       float64 `json:"closed_2"`
	DefenseWeight float64 `json:"defense_weight"`
	CenterWeight  float64 `json:"center_weight"`
}

func DefaultHeuristics() HeuristicConfig {
	return HeuristicConfig{
		Five:          1000000.0,
		Open4:         50000.0,
		Closed4:       1000.0,
		Open3:         5000.0,
		Closed3:       100.0,
		Open2:         500.0,
		Closed2:       10.0,
		DefenseWeight: 1.1,
		CenterWeight:  2.0,
	}
}

// Resolve fills zero fields with the defaults. Zero means unset, so a weight
// cannot be disabled; configure a small positive value instead.
func (h HeuristicConfig) Resolve() HeuristicConfig {
	defaults := DefaultHeuristics()
	if h == (HeuristicConfig{}) {
		return defaults
	}
	if h.Five == 0 {
		h.Five = defaults.Five
	}
	if h.Open4 == 0 {
		h.Open4 = defaults.Open4
	}
	if h.Closed4 == 0 {
		h.Closed4 = defaults.Closed4
	}
	if h.Open3 == 0 {
		h.Open3 = defaults.Open3
	}
	if h.Closed3 == 0 {
		h.Closed3 = defaults.Closed3
	}
	if h.Open2 == 0 {
		h.Open2 = defaults.Open2
	}
	if h.Closed2 == 0 {
		h.Closed2 = defaults.Closed2
	}
	if h.DefenseWeight == 0 {
		h.DefenseWeight = defaults.DefenseWeight
	}
	if h.CenterWeight == 0 {
		h.CenterWeight = defaults.CenterWeight
	}
	return h
}

// Fingerprint is an FNV-1a hash of the resolved weights, stable across runs.
func (h HeuristicConfig) Fingerprint() uint64 {
	resolved := h.Resolve()
	hash := uint64(fnv64Offset)
	mix := func(value float64) {
		bits := math.Float64bits(value)
		for i := 0; i < 8; i++ {
			hash ^= uint64(byte(bits >> (8 * i)))
			hash *= fnv64Prime
		}
	}
	mix(resolved.Five)
	mix(resolved.Open4)
	mix(resolved.Closed4)
	mix(resolved.Open3)
	mix(resolved.Closed3)
	mix(resolved.Open2)
	mix(resolved.Closed2)
	mix(resolved.DefenseWeight)
	mix(resolved.CenterWeight)
	return hash
}
