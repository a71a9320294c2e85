package syncer

import (
	"github.com/tutor-web/quizclient/internal/lecture"
)

// runningTotal recomputes one counter along a merged queue. The first
// entry seen is believed when it carries a stored value; after that
// only the per-entry increments count, so totals stay consistent even
// when client and server disagree about history.
type runningTotal struct {
	seen  bool
	total int
}

func (r *runningTotal) update(stored, increment int) int {
	if !r.seen {
		r.seen = true
		if stored != 0 {
			r.total = stored
		} else {
			r.total = increment
		}
	} else {
		r.total += increment
	}
	return r.total
}

// syncingLength is how much of the queue was actually submitted: the
// queue length with any trailing open records trimmed off.
func syncingLength(queue []*lecture.AnswerRecord) int {
	l := len(queue)
	for l > 0 && !queue[l-1].Answered() {
		l--
	}
	return l
}

// Merge reconciles three snapshots of a lecture's answer queue: preQ as
// it was when the sync request was sent, currentQ as it is now (the
// student may have kept answering), and serverQ as the server returned
// it. The result is the server's queue followed by every record the
// server has not seen, with the lecture's running counters recomputed
// along the way.
//
// All three inputs are left untouched; records in the result are
// copies.
func Merge(preQ, currentQ, serverQ []*lecture.AnswerRecord) []*lecture.AnswerRecord {
	cut := syncingLength(preQ)
	if cut > len(currentQ) {
		cut = len(currentQ)
	}

	out := make([]*lecture.AnswerRecord, 0, len(serverQ)+len(currentQ)-cut)
	for _, a := range serverQ {
		out = append(out, a.Clone())
	}
	for _, a := range currentQ[cut:] {
		out = append(out, a.Clone())
	}

	var answered, correct, practice runningTotal
	for _, a := range out {
		answeredInc := 0
		if a.Answered() {
			answeredInc = 1
		}
		correctInc := 0
		if a.Correct != nil && *a.Correct {
			correctInc = 1
		}
		practiceInc := 0
		if a.Practice() && a.Answered() {
			practiceInc = 1
		}

		a.LecAnswered = answered.update(a.LecAnswered, answeredInc)
		a.LecCorrect = correct.update(a.LecCorrect, correctInc)
		a.PracticeAnswered = practice.update(a.PracticeAnswered, practiceInc)
	}
	return out
}
