package scoring

import (
	"testing"

	"followership/internal/model"
)

func answersOf(participation, thinking int) model.AnswerSet {
	var a model.AnswerSet
	for i := 0; i < model.QuestionsPerAxis; i++ {
		a[i] = participation
		a[i+model.QuestionsPerAxis] = thinking
	}
	return a
}

func TestScore_SumsEachHalf(t *testing.T) {
	answers := model.AnswerSet{1, 2, 3, 4, 5, 1, 2, 3, 4, 5, 5, 5, 5, 5, 5, 1, 1, 1, 1, 1}
	got := Score(answers)
	if got.Participation != 30 {
		t.Errorf("Participation = %d, want 30", got.Participation)
	}
	if got.IndependentThinking != 30 {
		t.Errorf("IndependentThinking = %d, want 30", got.IndependentThinking)
	}
}

func TestScore_BoundsForEveryUniformAnswer(t *testing.T) {
	for p := model.LikertMin; p <= model.LikertMax; p++ {
		for q := model.LikertMin; q <= model.LikertMax; q++ {
			got := Score(answersOf(p, q))
			if got.Participation != p*10 || got.IndependentThinking != q*10 {
				t.Fatalf("Score(%d,%d) = %+v", p, q, got)
			}
			if got.Participation < 10 || got.Participation > 50 || got.IndependentThinking < 10 || got.IndependentThinking > 50 {
				t.Fatalf("Score(%d,%d) out of bounds: %+v", p, q, got)
			}
		}
	}
}

func TestScore_OnlyOwnHalfCounts(t *testing.T) {
	for i := 0; i < model.QuestionCount; i++ {
		a := answersOf(1, 1)
		a[i] = 5
		got := Score(a)
		if i < model.QuestionsPerAxis {
			if got.Participation != 14 || got.IndependentThinking != 10 {
				t.Fatalf("position %d: got %+v", i, got)
			}
		} else if got.Participation != 10 || got.IndependentThinking != 14 {
			t.Fatalf("position %d: got %+v", i, got)
		}
	}
}

func TestClassify_BoundaryTable(t *testing.T) {
	tests := []struct {
		p, q int
		want model.TypeCode
	}{
		{30, 30, model.TypePragmatic},
		{40, 40, model.TypePragmatic},
		{20, 20, model.TypePragmatic},
		{20, 40, model.TypePragmatic},
		{31, 30, model.TypePragmatic},
		{41, 41, model.TypeExemplary},
		{50, 50, model.TypeExemplary},
		{41, 31, model.TypeExemplary},
		{19, 40, model.TypeAlienated},
		{25, 41, model.TypeAlienated},
		{30, 50, model.TypeAlienated},
		{41, 25, model.TypeConformist},
		{50, 10, model.TypeConformist},
		{41, 30, model.TypeConformist},
		{15, 15, model.TypePassive},
		{10, 10, model.TypePassive},
		{19, 30, model.TypePassive},
		{30, 19, model.TypePassive},
	}
	for _, tt := range tests {
		got := Classify(model.ScorePair{Participation: tt.p, IndependentThinking: tt.q})
		if got.Code != tt.want {
			t.Errorf("Classify(%d,%d) = %s, want %s", tt.p, tt.q, got.Code, tt.want)
		}
	}
}

func TestClassify_TotalOverScoreRange(t *testing.T) {
	known := map[model.TypeCode]bool{}
	for _, ft := range model.FollowershipTypes() {
		known[ft.Code] = true
	}
	seen := map[model.TypeCode]int{}
	for p := 10; p <= 50; p++ {
		for q := 10; q <= 50; q++ {
			pair := model.ScorePair{Participation: p, IndependentThinking: q}
			got := Classify(pair)
			if !known[got.Code] {
				t.Fatalf("Classify(%d,%d) returned unknown type %q", p, q, got.Code)
			}
			matches := 0
			for _, r := range Rules() {
				if r.Match(pair) {
					matches++
				}
			}
			if matches == 0 && got.Code != model.TypePassive {
				t.Fatalf("Classify(%d,%d) = %s with no matching rule", p, q, got.Code)
			}
			seen[got.Code]++
		}
	}
	if len(seen) != len(known) {
		t.Errorf("only %d of %d types reachable: %v", len(seen), len(known), seen)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// (35,35) satisfies both the central zone and the high/high rule.
	got, rule := ClassifyWithRule(model.ScorePair{Participation: 35, IndependentThinking: 35})
	if got.Code != model.TypePragmatic {
		t.Fatalf("type = %s, want PRAGMATIC", got.Code)
	}
	if rule != "central zone" {
		t.Errorf("rule = %q, want central zone", rule)
	}
}

func TestAssess_EndToEndConformist(t *testing.T) {
	answers := model.AnswerSet{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	got := Assess(answers)
	if got.Scores.Participation != 50 || got.Scores.IndependentThinking != 10 {
		t.Fatalf("scores = %+v, want 50/10", got.Scores)
	}
	if got.Type.Code != model.TypeConformist {
		t.Fatalf("type = %s, want CONFORMIST", got.Type.Code)
	}
	if got.AnswersParticipation[0] != 5 || got.AnswersIndependentThinking[9] != 1 {
		t.Errorf("split answers not carried: %+v", got)
	}
}
