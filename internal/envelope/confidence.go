package envelope

// ScoreToTier converts a completeness score (0.0-1.0) to a confidence tier.
//
// Tier mapping:
//   - 0.95+ -> high (BCD record and Baseline status)
//   - 0.70-0.94 -> medium (one dataset)
//   - 0.30-0.69 -> low (partial match)
//   - <0.30 -> speculative
func ScoreToTier(score float64) ConfidenceTier {
	switch {
	case score >= 0.95:
		return TierHigh
	case score >= 0.70:
		return TierMedium
	case score >= 0.30:
		return TierLow
	default:
		return TierSpeculative
	}
}

// TierFromSources determines the tier from which datasets matched.
func TierFromSources(hasCompat, hasBaseline bool) ConfidenceTier {
	switch {
	case hasCompat && hasBaseline:
		return TierHigh
	case hasCompat || hasBaseline:
		return TierMedium
	default:
		return TierSpeculative
	}
}

// sourceFactors explains a TierFromSources decision.
func sourceFactors(hasCompat, hasBaseline bool) []ConfidenceFactor {
	factor := func(name string, ok bool) ConfidenceFactor {
		if ok {
			return ConfidenceFactor{Factor: name, Status: "matched", Impact: 0.5}
		}
		return ConfidenceFactor{Factor: name, Status: "missing", Impact: -0.25}
	}
	return []ConfidenceFactor{
		factor("bcd", hasCompat),
		factor("web_features", hasBaseline),
	}
}
