package entity

import (
	"strings"
)

// Resource is a category of Fitbit data the sync engine knows how to pull.
type Resource string

const (
	ResourceSteps     Resource = "steps"
	ResourceHeartRate Resource = "heartrate"
	ResourceSleep     Resource = "sleep"
	ResourceWeight    Resource = "weight"
	ResourceProfile   Resource = "profile"
)

// AllResources is the fixed resource vocabulary, in sync order.
var AllResources = []Resource{
	ResourceSteps,
	ResourceHeartRate,
	ResourceSleep,
	ResourceWeight,
	ResourceProfile,
}

// DefaultResources is the subset synced when the caller selects nothing.
// It matches what the first single-user version of this system pulled.
var DefaultResources = []Resource{
	ResourceSteps,
	ResourceHeartRate,
}

// Granularity is the time resolution requested for intraday series.
type Granularity string

const (
	Granularity1Min  Granularity = "1min"
	Granularity5Min  Granularity = "5min"
	Granularity15Min Granularity = "15min"
)

// DefaultGranularity is the finest resolution Fitbit supports for
// activity intraday series.
const DefaultGranularity = Granularity1Min

// NormalizeResources maps arbitrary caller input onto the fixed vocabulary.
// Names are lowercased, unknown names are dropped, "all" expands to the full
// vocabulary, and a selection that normalizes to empty falls back to
// DefaultResources. The returned slice preserves vocabulary order and is
// free of duplicates.
func NormalizeResources(names []string) []Resource {
	selected := make(map[Resource]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "all" {
			for _, r := range AllResources {
				selected[r] = true
			}

			continue
		}
		for _, r := range AllResources {
			if name == string(r) {
				selected[r] = true
			}
		}
	}

	if len(selected) == 0 {
		return append([]Resource(nil), DefaultResources...)
	}

	normalized := make([]Resource, 0, len(selected))
	for _, r := range AllResources {
		if selected[r] {
			normalized = append(normalized, r)
		}
	}

	return normalized
}

// NormalizeGranularity maps caller input onto a supported intraday detail
// level, falling back to DefaultGranularity.
func NormalizeGranularity(name string) Granularity {
	switch Granularity(strings.ToLower(strings.TrimSpace(name))) {
	case Granularity1Min:
		return Granularity1Min
	case Granularity5Min:
		return Granularity5Min
	case Granularity15Min:
		return Granularity15Min
	default:
		return DefaultGranularity
	}
}

// HasIntraday reports whether the resource has a fine-grained intraday
// series in addition to its daily summary.
func (r Resource) HasIntraday() bool {
	return r == ResourceSteps || r == ResourceHeartRate
}
