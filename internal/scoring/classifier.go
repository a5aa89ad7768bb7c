package scoring

import "followership/internal/model"

const (
	// HighThreshold is the score a sub-score must exceed to count as high
	HighThreshold = 30

	PragmaticMin = 20
	PragmaticMax = 40
)

// Rule maps a score pair to a type when Match holds
type Rule struct {
	Name  string
	Match func(p model.ScorePair) bool
	Type  model.FollowershipType
}

// Rules returns the classification rules in priority order. The zones
// overlap, so the first matching rule decides.
func Rules() []Rule {
	return []Rule{
		{
			Name: "central zone",
			Match: func(p model.ScorePair) bool {
				return inPragmaticZone(p.Participation) && inPragmaticZone(p.IndependentThinking)
			},
			Type: model.Pragmatic,
		},
		{
			Name: "high participation, high thinking",
			Match: func(p model.ScorePair) bool {
				return high(p.Participation) && high(p.IndependentThinking)
			},
			Type: model.Exemplary,
		},
		{
			Name: "low participation, high thinking",
			Match: func(p model.ScorePair) bool {
				return !high(p.Participation) && high(p.IndependentThinking)
			},
			Type: model.Alienated,
		},
		{
			Name: "high participation, low thinking",
			Match: func(p model.ScorePair) bool {
				return high(p.Participation) && !high(p.IndependentThinking)
			},
			Type: model.Conformist,
		},
	}
}

// Classify returns the followership type for a score pair. Pairs matched by
// no rule fall through to Passive.
func Classify(p model.ScorePair) model.FollowershipType {
	t, _ := ClassifyWithRule(p)
	return t
}

// ClassifyWithRule also returns the name of the rule that decided
func ClassifyWithRule(p model.ScorePair) (model.FollowershipType, string) {
	for _, r := range Rules() {
		if r.Match(p) {
			return r.Type, r.Name
		}
	}
	return model.Passive, "fallback"
}

func inPragmaticZone(score int) bool {
	return score >= PragmaticMin && score <= PragmaticMax
}

func high(score int) bool {
	return score > HighThreshold
}
