// Package scoring turns a completed answer set into axis sub-scores and a
// followership type.
package scoring

import "followership/internal/model"

// Score sums the Participation half (positions 0-9) and the IndependentThinking
// half (positions 10-19). The caller must pass a complete answer set; no
// validation happens here.
func Score(answers model.AnswerSet) model.ScorePair {
	var pair model.ScorePair
	for i, v := range answers {
		if i < model.QuestionsPerAxis {
			pair.Participation += v
		} else {
			pair.IndependentThinking += v
		}
	}
	return pair
}

// Assess scores and classifies a complete answer set
func Assess(answers model.AnswerSet) model.Assessment {
	scores := Score(answers)
	participation, thinking := answers.Split()
	return model.Assessment{
		Scores:                     scores,
		Type:                       Classify(scores),
		AnswersParticipation:       participation,
		AnswersIndependentThinking: thinking,
	}
}
