package iaa

import (
	"math"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// GradeWeighting returns the weights applied to the n most recent graded
// answers, most recent first. The curve spans
// L = floor(min(max(n, nmin), nmax)) entries: a geometric decay
// ((L-1-j)/(L-1))^s, plain-normalised when its leading term already
// carries at least alpha of the mass, otherwise alpha is pinned at the
// front and the first L-1 decay terms are rescaled to share 1-alpha.
//
// The returned weights sum to 1 whenever n > 1.
func GradeWeighting(n int, alpha, s, nmin, nmax float64) []float64 {
	if n <= 0 {
		return nil
	}
	length := int(math.Min(math.Max(float64(n), nmin), nmax))
	if length < 1 {
		return nil
	}
	if length == 1 {
		return []float64{1}
	}

	decay := make([]float64, length)
	total := 0.0
	for j := range decay {
		base := float64(length-1-j) / float64(length-1)
		if base > 0 {
			decay[j] = math.Pow(base, s)
		}
		total += decay[j]
	}

	if decay[0]/total >= alpha {
		for j := range decay {
			decay[j] /= total
		}
		return decay
	}

	// The decay curve starts below alpha: pin alpha at the front and
	// push the curve back one slot, rescaled to the remaining mass.
	out := make([]float64, length)
	out[0] = alpha
	tailTotal := total - decay[length-1]
	for j := 1; j < length; j++ {
		out[j] = decay[j-1] / tailTotal * (1 - alpha)
	}
	return out
}

// GradeAllocation recomputes grades along the queue. Answered records
// receive GradeAfter as a pure function of the graded prefix ending at
// them; a trailing open record receives GradeBefore instead; the tail
// record additionally receives GradeNextRight, the grade one more
// correct answer would earn. Records whose verdict is nil (practice,
// unmarkable) never contribute to anyone's grade.
func GradeAllocation(cfg lecture.Config, queue []*lecture.AnswerRecord) {
	if len(queue) == 0 {
		return
	}

	var verdicts []bool
	for _, a := range queue {
		if a.Answered() && a.Correct != nil {
			verdicts = append(verdicts, *a.Correct)
		}
		if a.Answered() {
			g := gradeFor(cfg, verdicts)
			a.GradeAfter = &g
		}
	}

	last := queue[len(queue)-1]
	if !last.Answered() {
		last.GradeBefore = gradeFor(cfg, verdicts)
		last.GradeAfter = nil
	}
	last.GradeNextRight = gradeFor(cfg, append(verdicts, true))
}

// gradeFor computes the grade for a full graded history, newest last.
func gradeFor(cfg lecture.Config, verdicts []bool) float64 {
	if len(verdicts) == 0 {
		return 0
	}
	correct := 0
	for _, v := range verdicts {
		if v {
			correct++
		}
	}

	switch cfg.GradeAlgorithm {
	case "scorrect":
		// Full marks once grade_s answers are correct, pro rata below.
		return round2(math.Min(float64(correct)/cfg.GradeS, 1) * 10)
	case "ratiocorrect":
		return round2(float64(correct) / float64(len(verdicts)) * 10)
	}

	weights := GradeWeighting(len(verdicts), cfg.GradeAlpha, cfg.GradeS, cfg.GradeNMin, cfg.GradeNMax)
	total := 0.0
	for i, w := range weights {
		idx := len(verdicts) - 1 - i
		if idx < 0 {
			break
		}
		if verdicts[idx] {
			total += w
		}
	}
	// 0..10 in quarter-point steps, never negative.
	return math.Max(math.Round(total*40)/4, 0)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
