package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/tutor-web/quizclient/internal/api"
	"github.com/tutor-web/quizclient/internal/iaa"
	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/quiz"
	"github.com/tutor-web/quizclient/internal/store"
	"github.com/tutor-web/quizclient/internal/testutil"
)

// clockStart is the fixed epoch the scenario clock begins at; each
// answer lands stepSeconds after its allocation.
const (
	clockStart  = 100000
	stepSeconds = 10
)

// offlineClient refuses every server call. Scenario lectures are fully
// seeded into the store, so a harness run that reaches the network is a
// scenario bug.
type offlineClient struct{}

var _ api.Client = offlineClient{}

func (offlineClient) SyncLecture(context.Context, *lecture.Lecture) (*lecture.Lecture, error) {
	return nil, lecture.Errorf(lecture.KindNetwork, "scenario harness is offline")
}

func (offlineClient) GetQuestion(context.Context, *lecture.Lecture, string) (*lecture.Question, error) {
	return nil, lecture.Errorf(lecture.KindNetwork, "scenario harness is offline")
}

func (offlineClient) GetQuestions(context.Context, *lecture.Lecture) (*api.QuestionBundle, error) {
	return nil, lecture.Errorf(lecture.KindNetwork, "scenario harness is offline")
}

func (offlineClient) AddSubscription(context.Context, string) error {
	return lecture.Errorf(lecture.KindNetwork, "scenario harness is offline")
}

func (offlineClient) RemoveSubscription(context.Context, string) error {
	return lecture.Errorf(lecture.KindNetwork, "scenario harness is offline")
}

func (offlineClient) ListSubscriptions(context.Context) (*lecture.SubscriptionNode, error) {
	return nil, lecture.Errorf(lecture.KindNetwork, "scenario harness is offline")
}

// Run executes a scenario in a fresh in-memory replica and returns the
// collected trace, expectation failures and final summary.
func Run(scenario *Scenario) (*Result, error) {
	st := store.NewMemory()
	if err := seedLecture(st, &scenario.Lecture); err != nil {
		return nil, err
	}

	clock := testutil.NewClock(clockStart)
	session := quiz.NewSession(st, offlineClient{},
		quiz.WithClock(clock.Now),
		quiz.WithRand(rand.New(rand.NewSource(1))),
		quiz.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	if _, err := session.SetCurrentLecture(scenario.Lecture.URI); err != nil {
		return nil, err
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Flow {
		a, _, err := session.GetNewQuestion(ctx, iaa.AllocationOptions{
			Practice:    step.Practice,
			QuestionURI: step.Question,
		})
		if err != nil {
			return nil, fmt.Errorf("flow[%d]: ask %s: %w", i, step.Question, err)
		}
		gradeBefore := a.GradeBefore
		result.Trace = append(result.Trace, TraceEvent{
			Type:        "allocation",
			URI:         a.URI,
			Practice:    step.Practice,
			GradeBefore: &gradeBefore,
		})

		clock.Advance(stepSeconds)
		state, err := session.SetQuestionAnswer(ctx, map[string]any{"answer": step.Answer})
		if err != nil {
			return nil, fmt.Errorf("flow[%d]: answer %s: %w", i, step.Question, err)
		}
		closed := state.Answer
		result.Trace = append(result.Trace, TraceEvent{
			Type:             "answer",
			URI:              closed.URI,
			Practice:         step.Practice,
			Correct:          closed.Correct,
			GradeAfter:       closed.GradeAfter,
			LecAnswered:      closed.LecAnswered,
			LecCorrect:       closed.LecCorrect,
			PracticeAnswered: closed.PracticeAnswered,
		})

		checkExpect(result, i, step.Expect, closed)
	}

	lec, err := session.Lecture("", false)
	if err != nil {
		return nil, err
	}
	summary := quiz.Summarize(lec)
	result.Summary = SummarySnapshot{
		Practice:      summary.Practice,
		PracticeStats: summary.PracticeStats,
		Stats:         summary.Stats,
		Grade:         summary.Grade,
		Encouragement: summary.Encouragement,
	}

	checkAssertions(result, scenario.Assertions, lec)
	return result, nil
}

// checkExpect compares a closed record against a step's expect clause.
func checkExpect(result *Result, step int, expect *ExpectClause, a *lecture.AnswerRecord) {
	if expect == nil {
		return
	}
	if expect.Correct != nil {
		if a.Correct == nil {
			result.AddError(fmt.Sprintf("flow[%d]: expected correct=%v, got no verdict", step, *expect.Correct))
		} else if *a.Correct != *expect.Correct {
			result.AddError(fmt.Sprintf("flow[%d]: expected correct=%v, got %v", step, *expect.Correct, *a.Correct))
		}
	}
	if expect.Grade != nil {
		got := a.Grade()
		if got != *expect.Grade {
			result.AddError(fmt.Sprintf("flow[%d]: expected grade %v, got %v", step, *expect.Grade, got))
		}
	}
}

// checkAssertions validates the final queue state.
func checkAssertions(result *Result, assertions []Assertion, lec *lecture.Lecture) {
	tail := lec.LastAnswer()
	if tail == nil {
		for range assertions {
			result.AddError("no answers recorded")
		}
		return
	}
	for i, a := range assertions {
		switch a.Type {
		case AssertGrade:
			if got := tail.Grade(); got != a.Value {
				result.AddError(fmt.Sprintf("assertions[%d]: expected grade %v, got %v", i, a.Value, got))
			}
		case AssertAnswered:
			if tail.LecAnswered != a.Count {
				result.AddError(fmt.Sprintf("assertions[%d]: expected %d answered, got %d", i, a.Count, tail.LecAnswered))
			}
		case AssertCorrect:
			if tail.LecCorrect != a.Count {
				result.AddError(fmt.Sprintf("assertions[%d]: expected %d correct, got %d", i, a.Count, tail.LecCorrect))
			}
		case AssertPractice:
			if tail.PracticeAnswered != a.Count {
				result.AddError(fmt.Sprintf("assertions[%d]: expected %d practice, got %d", i, a.Count, tail.PracticeAnswered))
			}
		}
	}
}

// seedLecture writes the scenario's lecture, questions and a matching
// subscription tree into the replica.
func seedLecture(st store.Store, def *LectureDef) error {
	lec := &lecture.Lecture{
		URI:         def.URI,
		Title:       def.Title,
		Settings:    lecture.RawSettings(def.Settings),
		AnswerQueue: []*lecture.AnswerRecord{},
	}
	for _, q := range def.Questions {
		lec.Questions = append(lec.Questions, &lecture.QuestionTally{
			URI:     q.URI,
			Chosen:  q.Chosen,
			Correct: q.Correct,
		})

		values := make([]any, len(q.Answer))
		for i, v := range q.Answer {
			values[i] = v
		}
		qn := &lecture.Question{
			URI:     q.URI,
			Content: "<p>" + q.URI + "</p>",
			Correct: lecture.AnswerSpec{"answer": values},
		}
		if err := store.SetJSON(st, q.URI, qn); err != nil {
			return err
		}
	}
	if err := store.SetJSON(st, def.URI, lec); err != nil {
		return err
	}
	return store.SetJSON(st, store.KeySubscriptions, &lecture.SubscriptionNode{
		Children: []*lecture.SubscriptionNode{{Href: def.URI}},
	})
}
