package quiz

import (
	"context"

	"github.com/tutor-web/quizclient/internal/iaa"
	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/store"
)

// allocationAttempts bounds the draw-and-fetch loop in GetNewQuestion.
// A broken question fails its fetch; rather than surfacing it we draw
// again, and only report the error once the attempts are spent.
const allocationAttempts = 10

// GetNewQuestion assigns the next question of the current lecture. An
// open record is resumed as-is, so calling this twice without answering
// returns the same question.
func (s *Session) GetNewQuestion(ctx context.Context, opts iaa.AllocationOptions) (*lecture.AnswerRecord, *lecture.Question, error) {
	lec, err := s.Lecture("", false)
	if err != nil {
		return nil, nil, err
	}
	cfg := lecture.ParseConfig(lec.Settings)

	var (
		a  *lecture.AnswerRecord
		qn *lecture.Question
	)
	if last := lec.LastAnswer(); last != nil && !last.Answered() {
		// Carry on answering the open question.
		a = last
		qn, err = s.questionData(ctx, lec, a.URI)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if opts.Practice && iaa.PracticeAllowed(cfg, lec.AnswerQueue) <= 0 {
			return nil, nil, lecture.Errorf(lecture.KindPracticeQuota, "no practice questions left").
				WithContext("lecture", lec.URI)
		}

		clientID, err := s.ClientID()
		if err != nil {
			return nil, nil, err
		}

		for attempt := 0; ; attempt++ {
			a, err = iaa.NewAllocation(s.rng, lec, opts)
			if err == nil {
				qn, err = s.questionData(ctx, lec, a.URI)
			}
			if err == nil {
				break
			}
			if attempt+1 >= allocationAttempts {
				return nil, nil, err
			}
			s.log.Debug("allocation attempt failed", "lecture", lec.URI, "error", err)
		}
		a.ClientID = clientID
		lec.AnswerQueue = append(lec.AnswerQueue, a)
	}

	// The fetched question data might be slightly different
	a.URI = qn.URI

	now := s.now()
	if a.TimeStart == 0 {
		a.TimeStart = now
	}
	a.Synced = false
	a.RemainingTime = a.AllottedTime
	if a.AllottedTime != 0 {
		a.RemainingTime = a.AllottedTime - int(now-a.TimeStart)
	}

	if err := s.PutLecture(lec); err != nil {
		return nil, nil, err
	}
	return a, qn, nil
}

// SetQuestionAnswer closes the current open question with the
// student's form data, marks it and updates grades and counters.
func (s *Session) SetQuestionAnswer(ctx context.Context, formData map[string]any) (*State, error) {
	lec, err := s.Lecture("", false)
	if err != nil {
		return nil, err
	}

	a := lec.LastAnswer()
	if a == nil || a.Answered() {
		return nil, lecture.Errorf(lecture.KindValidation, "no open question to answer").
			WithContext("lecture", lec.URI)
	}

	a.TimeEnd = s.now()
	if a.StudentAnswer == nil {
		a.StudentAnswer = lecture.StudentAnswer{}
	}
	for k, v := range formData {
		a.StudentAnswer[k] = v
	}
	a.Synced = false

	qn, err := s.questionData(ctx, lec, a.URI)
	if err != nil {
		return nil, err
	}
	a.Correct = iaa.MarkAnswer(a, qn.Correct)

	if tally := lec.TallyFor(a.URI); tally != nil {
		tally.Chosen++
		if a.Correct != nil && *a.Correct {
			tally.Correct++
		}
	}

	cfg := lecture.ParseConfig(lec.Settings)

	// Students who rush get their explanation held back for the study
	// time they should have spent.
	a.ExplanationDelay = iaa.QuestionStudyTime(cfg, lec.AnswerQueue)
	if a.ExplanationDelay > 0 {
		a.ExplanationDelay = max(a.ExplanationDelay-float64(a.TimeEnd-a.TimeStart), 0)
	}

	iaa.GradeAllocation(cfg, lec.AnswerQueue)

	a.LecAnswered++
	if a.Correct != nil && *a.Correct {
		a.LecCorrect++
	}
	if a.Practice() {
		a.PracticeAnswered++
	}

	if err := s.PutLecture(lec); err != nil {
		return nil, err
	}
	return &State{
		Answer:          a,
		LectureURI:      lec.URI,
		LectureTitle:    lec.Title,
		MaterialTags:    lec.MaterialTags,
		PracticeAllowed: iaa.PracticeAllowed(cfg, lec.AnswerQueue),
	}, nil
}

// defaultReviewForm is offered when a question carries no review
// prompts of its own.
var defaultReviewForm = []lecture.ReviewQuestion{{
	Name:  "content",
	Title: "What do you think of the question?",
	Values: [][]any{
		{-12, "There is a mistake in the problem or the answer"},
		{0, "I have other feedback"},
	},
}}

// GetQuestionReviewForm returns the review prompts for the current
// question.
func (s *Session) GetQuestionReviewForm(ctx context.Context) ([]lecture.ReviewQuestion, error) {
	lec, err := s.Lecture("", false)
	if err != nil {
		return nil, err
	}
	a := lec.LastAnswer()
	if a == nil {
		return nil, lecture.Errorf(lecture.KindValidation, "no question to review").
			WithContext("lecture", lec.URI)
	}

	qn, err := s.questionData(ctx, lec, a.URI)
	if err != nil {
		return nil, err
	}
	if len(qn.ReviewQuestions) > 0 {
		return qn.ReviewQuestions, nil
	}
	return defaultReviewForm, nil
}

// SetQuestionReview attaches the student's review of the current
// question to its answer record.
func (s *Session) SetQuestionReview(formData map[string]any) (*State, error) {
	lec, err := s.Lecture("", false)
	if err != nil {
		return nil, err
	}
	a := lec.LastAnswer()
	if a == nil {
		return nil, lecture.Errorf(lecture.KindValidation, "no question to review").
			WithContext("lecture", lec.URI)
	}

	a.Review = formData
	a.Synced = false

	if err := s.PutLecture(lec); err != nil {
		return nil, err
	}
	cfg := lecture.ParseConfig(lec.Settings)
	return &State{
		Answer:          a,
		LectureURI:      lec.URI,
		MaterialTags:    lec.MaterialTags,
		PracticeAllowed: iaa.PracticeAllowed(cfg, lec.AnswerQueue),
	}, nil
}

// questionData loads a question, preferring the replica and falling
// back to the server for questions not yet replicated. A question the
// server failed to render is an error, so callers draw another.
func (s *Session) questionData(ctx context.Context, lec *lecture.Lecture, uri string) (*lecture.Question, error) {
	var qn lecture.Question
	ok, err := store.GetJSON(s.store, uri, &qn)
	if err != nil {
		return nil, err
	}
	if !ok {
		fetched, err := s.client.GetQuestion(ctx, lec, uri)
		if err != nil {
			return nil, err
		}
		qn = *fetched
	}
	if qn.Error != "" {
		return nil, lecture.Errorf(lecture.KindRemote, "question failed to render: %s", qn.Error).
			WithContext("question", uri)
	}
	if qn.URI == "" {
		qn.URI = uri
	}
	return &qn, nil
}
