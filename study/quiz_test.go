package study

import "testing"

func TestQuizNormalizesAnswers(t *testing.T) {
	q := NewQuiz([]Card{
		{Term: "Hola", Definition: "Hello"},
		{Term: "Adios", Definition: "Goodbye"},
	})

	if !q.Submit("hello") {
		t.Error("case difference should not fail an answer")
	}
	if !q.Submit("Goodbye ") {
		t.Error("trailing whitespace should not fail an answer")
	}

	if q.Score() != 2 {
		t.Errorf("expected score 2, got %d", q.Score())
	}
	if !q.Completed() {
		t.Error("expected quiz completed after last answer")
	}

	answers := q.Answers()
	if len(answers) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(answers))
	}
	for i, a := range answers {
		if !a.IsCorrect {
			t.Errorf("entry %d should be correct: %+v", i, a)
		}
	}
	if answers[0].Term != "Hola" || answers[0].CorrectAnswer != "Hello" {
		t.Errorf("unexpected first log entry %+v", answers[0])
	}
}

func TestQuizScoresWrongAnswers(t *testing.T) {
	q := NewQuiz([]Card{
		{Term: "Hola", Definition: "Hello"},
		{Term: "Adios", Definition: "Goodbye"},
	})

	if q.Submit("Helo") {
		t.Error("near miss must not score; matching is exact after normalization")
	}
	q.Submit("Goodbye")

	if q.Score() != 1 {
		t.Errorf("expected score 1, got %d", q.Score())
	}

	answers := q.Answers()
	if answers[0].IsCorrect {
		t.Error("first answer should be logged incorrect")
	}
	if answers[0].UserAnswer != "Helo" {
		t.Errorf("log should keep the raw submission, got %q", answers[0].UserAnswer)
	}
	if !answers[1].IsCorrect {
		t.Error("second answer should be logged correct")
	}
}

func TestQuizAdvancesOnePerSubmit(t *testing.T) {
	q := NewQuiz([]Card{
		{Term: "uno", Definition: "one"},
		{Term: "dos", Definition: "two"},
		{Term: "tres", Definition: "three"},
	})

	if q.Index() != 0 {
		t.Errorf("expected index 0, got %d", q.Index())
	}
	q.Submit("one")
	if q.Index() != 1 || q.Completed() {
		t.Errorf("expected index 1 and in progress, got index %d completed %v", q.Index(), q.Completed())
	}

	card, ok := q.Current()
	if !ok || card.Term != "dos" {
		t.Errorf("expected current card dos, got %+v", card)
	}
}

func TestQuizIgnoresSubmitAfterCompletion(t *testing.T) {
	q := NewQuiz([]Card{{Term: "uno", Definition: "one"}})
	q.Submit("one")

	if q.Submit("one") {
		t.Error("submit after completion should be a no-op")
	}
	if q.Score() != 1 || len(q.Answers()) != 1 {
		t.Error("completed quiz must not accumulate further answers")
	}
}

func TestQuizRestart(t *testing.T) {
	q := NewQuiz([]Card{
		{Term: "uno", Definition: "one"},
		{Term: "dos", Definition: "two"},
	})
	q.Submit("one")
	q.Submit("wrong")

	q.Restart()
	if q.Index() != 0 || q.Score() != 0 || q.Completed() {
		t.Error("Restart should reset index, score and completion")
	}
	if len(q.Answers()) != 0 {
		t.Error("Restart should discard the answer log")
	}

	q.Submit("one")
	if q.Score() != 1 {
		t.Errorf("expected fresh scoring after restart, got %d", q.Score())
	}
}

func TestQuizWithNoCardsIsComplete(t *testing.T) {
	q := NewQuiz(nil)
	if !q.Completed() {
		t.Error("quiz over zero cards should start completed")
	}
	if q.Submit("anything") {
		t.Error("no answer can be correct with no cards")
	}
}
