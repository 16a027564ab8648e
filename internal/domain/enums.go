package domain

// EligibilityReason explains the outcome of an eligibility check.
type EligibilityReason string

const (
	ReasonNoProfile   EligibilityReason = "no_profile"
	ReasonTooSoon     EligibilityReason = "too_soon"
	ReasonWeeklyLimit EligibilityReason = "weekly_limit"
	ReasonEligible    EligibilityReason = "eligible"
)

func (r EligibilityReason) String() string { return string(r) }

func (r EligibilityReason) IsValid() bool {
	switch r {
	case ReasonNoProfile, ReasonTooSoon, ReasonWeeklyLimit, ReasonEligible:
		return true
	}
	return false
}

// FieldCategory groups story fields by theme.
type FieldCategory string

const (
	CategoryGrowth     FieldCategory = "growth"
	CategoryPsychology FieldCategory = "psychology"
	CategoryCommunity  FieldCategory = "community"
	CategoryPractical  FieldCategory = "practical"
	CategoryDreams     FieldCategory = "dreams"
	CategoryLife       FieldCategory = "life"
)

func (c FieldCategory) String() string { return string(c) }

func (c FieldCategory) IsValid() bool {
	switch c {
	case CategoryGrowth, CategoryPsychology, CategoryCommunity,
		CategoryPractical, CategoryDreams, CategoryLife:
		return true
	}
	return false
}

// Strategy selects which candidate field to offer next.
type Strategy string

const (
	StrategyRandom         Strategy = "random"
	StrategyEasyFirst      Strategy = "easy_first"
	StrategyCategoryRotate Strategy = "category_rotate"
)

func (s Strategy) String() string { return string(s) }

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyRandom, StrategyEasyFirst, StrategyCategoryRotate:
		return true
	}
	return false
}

// ParseStrategy maps a client-supplied strategy name to a Strategy.
// Empty and unrecognized values fall back to StrategyRandom, matching the
// client contract where strategy is an optional hint, not a required input.
func ParseStrategy(s string) Strategy {
	parsed := Strategy(s)
	if parsed.IsValid() {
		return parsed
	}
	return StrategyRandom
}
