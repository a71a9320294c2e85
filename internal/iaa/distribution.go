package iaa

import (
	"math"
	"math/rand"
	"sort"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// WeightedQuestion pairs a question URI with its draw probability.
type WeightedQuestion struct {
	URI         string
	Probability float64
}

// recentWindow is how many of the latest queue entries down-weight
// their question to discourage immediate repeats.
const recentWindow = 3

// QuestionDistribution assigns a draw probability to every question in
// the pool, shaped by the student's current grade. Questions are ranked
// easiest-first by observed correct ratio, mapped onto a beta-like
// curve whose mode tracks the grade, then adjusted: heavily-chosen
// questions are diluted, questions seen in the last window entries are
// halved, questions last answered incorrectly are doubled. When extras
// are supplied with extraProb > 0, the main pool is scaled to
// 1-extraProb and each extra receives an equal share of extraProb.
//
// The result is sorted by ascending probability.
func QuestionDistribution(questions []*lecture.QuestionTally, grade float64, window int, queue []*lecture.AnswerRecord, extras []*lecture.QuestionTally, extraProb float64, cfg lecture.Config) []WeightedQuestion {
	if len(questions) == 0 && len(extras) == 0 {
		return nil
	}

	ordered := make([]*lecture.QuestionTally, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return correctRatio(ordered[i]) > correctRatio(ordered[j])
	})

	m := math.Pow(clamp(grade, 0, 10)/10, cfg.AdaptiveGPow)

	recent := make(map[string]bool, window)
	if window > 0 && len(queue) > 0 {
		start := len(queue) - window
		if start < 0 {
			start = 0
		}
		for _, a := range queue[start:] {
			recent[a.URI] = true
		}
	}

	out := make([]WeightedQuestion, 0, len(ordered)+len(extras))
	total := 0.0
	for i, q := range ordered {
		x := float64(i+1) / float64(len(ordered)+1)
		w := math.Pow(x, m) * math.Pow(1-x, 1-m)
		w /= math.Max(float64(q.Chosen), 1)
		if recent[q.URI] {
			w *= 0.5
		} else if lastAnsweredWrong(queue, q.URI) {
			w *= 2.0
		}
		total += w
		out = append(out, WeightedQuestion{URI: q.URI, Probability: w})
	}

	mainMass := 1.0
	if len(extras) > 0 && extraProb > 0 {
		mainMass = 1 - extraProb
	}
	if total > 0 {
		for i := range out {
			out[i].Probability = out[i].Probability / total * mainMass
		}
	}

	if len(extras) > 0 && extraProb > 0 {
		share := extraProb / float64(len(extras))
		for _, q := range extras {
			out = append(out, WeightedQuestion{URI: q.URI, Probability: share})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability < out[j].Probability
	})
	return out
}

// ChooseQuestion draws one URI from the distribution.
func ChooseQuestion(rng *rand.Rand, dist []WeightedQuestion) string {
	if len(dist) == 0 {
		return ""
	}
	r := rng.Float64()
	acc := 0.0
	for _, wq := range dist {
		acc += wq.Probability
		if r < acc {
			return wq.URI
		}
	}
	return dist[len(dist)-1].URI
}

func correctRatio(q *lecture.QuestionTally) float64 {
	if q.Chosen == 0 {
		return 0
	}
	return float64(q.Correct) / float64(q.Chosen)
}

// lastAnsweredWrong reports whether the most recent graded answer for
// uri in the queue was incorrect.
func lastAnsweredWrong(queue []*lecture.AnswerRecord, uri string) bool {
	for i := len(queue) - 1; i >= 0; i-- {
		a := queue[i]
		if a.URI != uri || !a.Answered() || a.Correct == nil {
			continue
		}
		return !*a.Correct
	}
	return false
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
