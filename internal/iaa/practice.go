package iaa

import (
	"math"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// PracticeAllowed returns how many practice questions the student may
// take right now. Every practice_after real questions earn a batch of
// practice_batch practice attempts; attempts already taken are
// deducted. An unset practice_after means unlimited practice.
func PracticeAllowed(cfg lecture.Config, queue []*lecture.AnswerRecord) float64 {
	real := 0
	for _, a := range queue {
		if !a.Practice() {
			real++
		}
	}

	if cfg.PracticeAfter == 0 {
		return math.Inf(1)
	}
	rv := math.Floor(float64(real) / cfg.PracticeAfter)
	if rv == 0 {
		return 0
	}
	rv *= cfg.PracticeBatch
	return math.Max(rv-float64(len(queue)-real), 0)
}
