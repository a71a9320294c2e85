package iaa

import (
	"math/rand"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// AllocationOptions steer NewAllocation away from its default draw.
type AllocationOptions struct {
	// Practice marks the resulting record as a practice attempt,
	// excluded from grading.
	Practice bool

	// QuestionURI forces a specific question instead of drawing one.
	QuestionURI string
}

// NewAllocation draws the next question for the lecture and seeds an
// answer record for it. Regular questions form the default pool;
// historical questions replace it with probability hist_sel when any
// exist; template questions are blended in with prob_template_eq. The
// record inherits the running totals and current grade from the queue
// tail so it can be merged without a rescan.
func NewAllocation(rng *rand.Rand, lec *lecture.Lecture, opts AllocationOptions) (*lecture.AnswerRecord, error) {
	cfg := lecture.ParseConfig(lec.Settings)
	if len(lec.Questions) == 0 {
		return nil, lecture.Errorf(lecture.KindEmptyLecture, "lecture %s has no questions", lec.URI).
			WithContext("lecture", lec.URI)
	}

	grade := 0.0
	if tail := lec.LastAnswer(); tail != nil {
		grade = tail.Grade()
	}

	uri := opts.QuestionURI
	if uri != "" {
		found := false
		for _, q := range lec.Questions {
			if q.URI == uri {
				found = true
				break
			}
		}
		if !found {
			return nil, lecture.Errorf(lecture.KindUnknownQuestion, "question %s is not part of lecture %s", uri, lec.URI).
				WithContext("question", uri).
				WithContext("lecture", lec.URI)
		}
	} else {
		uri = drawQuestion(rng, lec, cfg, grade)
		if uri == "" {
			return nil, lecture.Errorf(lecture.KindEmptyLecture, "lecture %s has no drawable questions", lec.URI).
				WithContext("lecture", lec.URI)
		}
	}

	a := &lecture.AnswerRecord{
		URI:           uri,
		GradeBefore:   grade,
		StudentAnswer: lecture.StudentAnswer{},
	}
	if opts.Practice {
		a.StudentAnswer["practice"] = true
	}
	if tail := lec.LastAnswer(); tail != nil {
		a.LecAnswered = tail.LecAnswered
		a.LecCorrect = tail.LecCorrect
		a.PracticeAnswered = tail.PracticeAnswered
	}
	if t, ok := QnTimeout(cfg, grade); ok {
		a.AllottedTime = t
	}
	return a, nil
}

func drawQuestion(rng *rand.Rand, lec *lecture.Lecture, cfg lecture.Config, grade float64) string {
	var regular, historical, templates []*lecture.QuestionTally
	for _, q := range lec.Questions {
		switch q.Type {
		case lecture.TypeHistorical:
			historical = append(historical, q)
		case lecture.TypeTemplate:
			templates = append(templates, q)
		default:
			regular = append(regular, q)
		}
	}

	pool := regular
	if len(historical) > 0 && rng.Float64() < cfg.HistSel {
		pool = historical
	}

	dist := QuestionDistribution(pool, grade, recentWindow, lec.AnswerQueue, templates, cfg.ProbTemplate, cfg)
	return ChooseQuestion(rng, dist)
}
