package model

import (
	"errors"
	"testing"
)

func TestAnswerSet_Set(t *testing.T) {
	var a AnswerSet
	if err := a.Set(0, 5); err != nil {
		t.Fatalf("Set(0,5): %v", err)
	}
	if err := a.Set(19, 1); err != nil {
		t.Fatalf("Set(19,1): %v", err)
	}
	if err := a.Set(0, Unanswered); err != nil {
		t.Fatalf("clearing an answer: %v", err)
	}
	if a[0] != 0 || a[19] != 1 {
		t.Fatalf("answers = %v", a)
	}

	invalid := []struct{ index, value int }{{-1, 3}, {20, 3}, {0, 6}, {0, -1}}
	for _, tc := range invalid {
		if err := a.Set(tc.index, tc.value); !errors.Is(err, ErrInvalidAnswer) {
			t.Errorf("Set(%d,%d) err = %v, want ErrInvalidAnswer", tc.index, tc.value, err)
		}
	}
}

func TestAnswerSet_Complete(t *testing.T) {
	var a AnswerSet
	if a.Complete() {
		t.Fatal("zero answer set reported complete")
	}
	for i := range a {
		a[i] = 3
	}
	if !a.Complete() {
		t.Fatal("full answer set reported incomplete")
	}
	// Each single gap must block completeness.
	for i := range a {
		b := a
		b[i] = Unanswered
		if b.Complete() {
			t.Fatalf("gap at %d not detected", i)
		}
		if got := b.Missing(); len(got) != 1 || got[0] != i {
			t.Fatalf("Missing() = %v, want [%d]", got, i)
		}
	}
}

func TestAnswerSet_CountAndSplit(t *testing.T) {
	a := AnswerSet{1, 2, 3, 4, 5, 0, 0, 0, 0, 0, 5, 4, 3, 2, 1, 0, 0, 0, 0, 0}
	if got := a.AnsweredCount(); got != 10 {
		t.Errorf("AnsweredCount = %d, want 10", got)
	}
	p, q := a.Split()
	if p[0] != 1 || p[4] != 5 || q[0] != 5 || q[4] != 1 {
		t.Errorf("Split() = %v, %v", p, q)
	}
}

func TestValidateCatalog_Default(t *testing.T) {
	if err := ValidateCatalog(DefaultQuestions()); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestValidateCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Question) []Question
	}{
		{"short", func(q []Question) []Question { return q[:19] }},
		{"duplicate id", func(q []Question) []Question { q[1].ID = 1; return q }},
		{"id out of range", func(q []Question) []Question { q[0].ID = 21; return q }},
		{"axis out of order", func(q []Question) []Question { q[0], q[10] = q[10], q[0]; return q }},
		{"empty text", func(q []Question) []Question { q[5].Text = ""; return q }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.mutate(DefaultQuestions()))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("err = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestTypeByCode(t *testing.T) {
	for _, ft := range FollowershipTypes() {
		got, ok := TypeByCode(ft.Code)
		if !ok || got != ft {
			t.Errorf("TypeByCode(%s) = %+v, %v", ft.Code, got, ok)
		}
	}
	if _, ok := TypeByCode("LEADER"); ok {
		t.Error("unknown code resolved")
	}
}

func TestRespondentIdentity_Valid(t *testing.T) {
	tests := []struct {
		id   RespondentIdentity
		want bool
	}{
		{RespondentIdentity{Name: "Hong", Company: "Acme"}, true},
		{RespondentIdentity{Name: "", Company: "Acme"}, false},
		{RespondentIdentity{Name: "Hong", Company: ""}, false},
		{RespondentIdentity{Name: "  ", Company: "Acme"}, false},
	}
	for _, tt := range tests {
		if got := tt.id.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.id, got, tt.want)
		}
	}
}
