package study

import "strings"

// AnswerRecord is one graded submission in a quiz session.
type AnswerRecord struct {
	Term          string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
}

// Quiz is the typed-answer scoring machine. Answers are compared to the
// card's definition after trimming and case folding; there is no partial
// credit and no way to skip or go back.
type Quiz struct {
	cards     []Card
	index     int
	score     int
	answers   []AnswerRecord
	completed bool
}

// NewQuiz snapshots the card order for the session. A quiz over zero cards
// is complete from the start.
func NewQuiz(cards []Card) *Quiz {
	snapshot := make([]Card, len(cards))
	copy(snapshot, cards)
	return &Quiz{
		cards:     snapshot,
		completed: len(snapshot) == 0,
	}
}

func matches(userText, definition string) bool {
	return strings.EqualFold(strings.TrimSpace(userText), strings.TrimSpace(definition))
}

// Submit grades the answer for the current card, logs it, and advances. On
// the last card the quiz moves to completed instead. Submissions after
// completion are ignored.
func (q *Quiz) Submit(userText string) bool {
	if q.completed {
		return false
	}

	card := q.cards[q.index]
	isCorrect := matches(userText, card.Definition)

	q.answers = append(q.answers, AnswerRecord{
		Term:          card.Term,
		UserAnswer:    userText,
		CorrectAnswer: card.Definition,
		IsCorrect:     isCorrect,
	})
	if isCorrect {
		q.score++
	}

	if q.index < len(q.cards)-1 {
		q.index++
	} else {
		q.completed = true
	}

	return isCorrect
}

// Restart discards the score and log and begins again at the first card.
func (q *Quiz) Restart() {
	q.index = 0
	q.score = 0
	q.answers = nil
	q.completed = len(q.cards) == 0
}

func (q *Quiz) Index() int {
	return q.index
}

func (q *Quiz) Score() int {
	return q.score
}

func (q *Quiz) Completed() bool {
	return q.completed
}

func (q *Quiz) Total() int {
	return len(q.cards)
}

// Answers returns a copy of the answer log so far.
func (q *Quiz) Answers() []AnswerRecord {
	out := make([]AnswerRecord, len(q.answers))
	copy(out, q.answers)
	return out
}

// Current returns the card awaiting an answer; ok is false once completed.
func (q *Quiz) Current() (Card, bool) {
	if q.completed {
		return Card{}, false
	}
	return q.cards[q.index], true
}
