package model

import (
	"errors"
	"fmt"
)

const (
	Unanswered = 0
	LikertMin  = 1
	LikertMax  = 5
)

var ErrInvalidAnswer = errors.New("invalid answer")

// AnswerSet holds the 20 ordered Likert responses of a session.
// An element is either Unanswered (0) or a response in 1..5.
type AnswerSet [QuestionCount]int

// Set stores value at position index. Any value in 0..5 is accepted so an
// answer can be cleared or overwritten freely while answers are collected.
func (a *AnswerSet) Set(index, value int) error {
	if index < 0 || index >= QuestionCount {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidAnswer, index)
	}
	if value < Unanswered || value > LikertMax {
		return fmt.Errorf("%w: value %d out of range", ErrInvalidAnswer, value)
	}
	a[index] = value
	return nil
}

// Complete reports whether every answer is a Likert response
func (a AnswerSet) Complete() bool {
	for _, v := range a {
		if v < LikertMin || v > LikertMax {
			return false
		}
	}
	return true
}

// AnsweredCount returns how many positions hold a response
func (a AnswerSet) AnsweredCount() int {
	n := 0
	for _, v := range a {
		if v != Unanswered {
			n++
		}
	}
	return n
}

// Missing returns the positions that are still unanswered
func (a AnswerSet) Missing() []int {
	missing := []int{}
	for i, v := range a {
		if v == Unanswered {
			missing = append(missing, i)
		}
	}
	return missing
}

// Split returns the Participation and IndependentThinking halves
func (a AnswerSet) Split() (participation, thinking [QuestionsPerAxis]int) {
	copy(participation[:], a[:QuestionsPerAxis])
	copy(thinking[:], a[QuestionsPerAxis:])
	return participation, thinking
}
