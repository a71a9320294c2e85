package iaa

import (
	"math"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// QuestionStudyTime returns the seconds the student must spend on
// review material before the next question unlocks. The delay grows
// with the trailing run of incorrect answers and, optionally, with the
// total answered so far; it is capped at studytime_max.
func QuestionStudyTime(cfg lecture.Config, queue []*lecture.AnswerRecord) float64 {
	if len(queue) == 0 {
		return 0
	}

	wrongRun := 0
	for i := len(queue) - 1; i >= 0; i-- {
		a := queue[i]
		if a.Correct == nil || *a.Correct {
			break
		}
		wrongRun++
	}

	tail := queue[len(queue)-1]
	d := cfg.StudyTimeFactor*float64(wrongRun) + cfg.StudyTimeAnsweredFactor*float64(tail.LecAnswered)
	return math.Min(d, cfg.StudyTimeMax)
}

// QnTimeout returns the per-question time allowance in seconds, shaped
// as an inverted bell around timeout_grade: students near the target
// grade get timeout_min minutes, those far from it get up to
// timeout_max. Returns false when the lecture sets no timeout.
func QnTimeout(cfg lecture.Config, grade float64) (int, bool) {
	if !cfg.TimeoutSet {
		return 0, false
	}
	spread := math.Exp(-math.Pow(grade-cfg.TimeoutGrade, 2) / (2 * math.Pow(cfg.TimeoutStd, 2)))
	minutes := cfg.TimeoutMax - (cfg.TimeoutMax-cfg.TimeoutMin)*spread
	return int(math.Round(60 * minutes)), true
}
