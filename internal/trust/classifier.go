package trust

import (
	"fmt"

	"github.com/richxcame/storefront/pkg/common"
)

// Tier thresholds. A score at or above the threshold belongs to the tier.
const (
	GoodThreshold    = 80
	WarningThreshold = 60
	WatchThreshold   = 40
)

// Classify maps a trust score to its tier. It is total: every int maps to
// exactly one status, including out-of-range inputs.
func Classify(score int) Status {
	switch {
	case score >= GoodThreshold:
		return StatusGood
	case score >= WarningThreshold:
		return StatusWarning
	case score >= WatchThreshold:
		return StatusWatch
	default:
		return StatusBlacklisted
	}
}

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// ParseTier parses a tier filter for the suspicious-customer view. Only
// non-good tiers are accepted; an unrecognized value is an error, never a
// silent widening of the result set.
func ParseTier(raw string) (Status, error) {
	switch Status(raw) {
	case StatusWarning, StatusWatch, StatusBlacklisted:
		return Status(raw), nil
	case StatusGood:
		return "", common.NewBadRequestError("min_tier must be a non-good tier (warning, watch, blacklisted)", nil)
	default:
		return "", common.NewBadRequestError(fmt.Sprintf("unknown tier %q", raw), nil)
	}
}

// TiersAtOrBelow returns the statuses at least as severe as the given tier,
// ordered from least to most severe. warning ⊇ watch ⊇ blacklisted.
func TiersAtOrBelow(tier Status) []Status {
	switch tier {
	case StatusWarning:
		return []Status{StatusWarning, StatusWatch, StatusBlacklisted}
	case StatusWatch:
		return []Status{StatusWatch, StatusBlacklisted}
	case StatusBlacklisted:
		return []Status{StatusBlacklisted}
	default:
		return nil
	}
}
