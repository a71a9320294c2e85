package quiz

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// GradeSummary is the between-questions status panel for one lecture,
// pre-rendered as display strings.
type GradeSummary struct {
	Practice      string `json:"practice,omitempty"`
	PracticeStats string `json:"practice_stats,omitempty"`
	Stats         string `json:"stats,omitempty"`
	Grade         string `json:"grade,omitempty"`
	Encouragement string `json:"encouragement,omitempty"`

	// LastEight is the most recent real answered records, newest
	// first.
	LastEight []*lecture.AnswerRecord `json:"last_eight"`
}

// Summarize renders the grade summary for a lecture.
func Summarize(lec *lecture.Lecture) GradeSummary {
	var out GradeSummary

	cfg := lecture.ParseConfig(lec.Settings)
	gradeVisible := int(cfg.GradeNMin) - len(lec.AnswerQueue)

	a := lec.LastAnswer()
	if a != nil {
		if a.Practice() {
			out.Practice = "Practice mode"
			out.PracticeStats = fmt.Sprintf("Answered %d practice questions.", a.PracticeAnswered)
		}
		out.Stats = fmt.Sprintf("Answered %d questions, %d correctly.",
			a.LecAnswered-a.PracticeAnswered, a.LecCorrect)

		currentGrade := a.Grade()
		if gradeVisible > 0 {
			out.Grade = fmt.Sprintf("Answer %d more questions to see your grade", gradeVisible)
		} else {
			out.Grade = "Your grade: " + formatGrade(currentGrade)
		}

		switch {
		case currentGrade >= 9.750:
			out.Encouragement = "You have aced this lecture!"
		case a.GradeNextRight > currentGrade && gradeVisible <= 0:
			out.Encouragement = "If you get the next question right: " + formatGrade(a.GradeNextRight)
		case cfg.AwardStageAced > 0 && cfg.AwardTutorialAced > 0:
			out.Encouragement = fmt.Sprintf("Win %d SMLY if you ace this stage, bonus %d SMLY for acing whole tutorial",
				int(math.Round(cfg.AwardStageAced/1000)), int(math.Round(cfg.AwardTutorialAced/1000)))
		}
	}

	out.LastEight = []*lecture.AnswerRecord{}
	for i := len(lec.AnswerQueue) - 1; i >= 0 && len(out.LastEight) < 8; i-- {
		rec := lec.AnswerQueue[i]
		if rec.Answered() && !rec.Practice() {
			out.LastEight = append(out.LastEight, rec)
		}
	}
	return out
}

// LectureGradeSummary renders the summary for a stored lecture.
func (s *Session) LectureGradeSummary(lecURI string) (GradeSummary, error) {
	lec, err := s.Lecture(lecURI, false)
	if err != nil {
		return GradeSummary{}, err
	}
	return Summarize(lec), nil
}

// LectureInfo is the per-lecture overview row in the menu.
type LectureInfo struct {
	URI    string  `json:"uri"`
	Title  string  `json:"title"`
	Grade  float64 `json:"grade"`
	Stats  string  `json:"stats"`
	Synced bool    `json:"synced"`

	// Offline is true when every question of the lecture is in the
	// replica, so it can be worked without a connection.
	Offline bool `json:"offline"`
}

// AvailableLectures lists every subscribed lecture with its current
// standing. Lectures the replica does not hold yet (mid-sync, evicted)
// are skipped.
func (s *Session) AvailableLectures() (*lecture.SubscriptionNode, []LectureInfo, error) {
	tree, err := s.Subscriptions(false)
	if err != nil {
		return nil, nil, err
	}

	keys, err := s.store.ListKeys()
	if err != nil {
		return nil, nil, err
	}
	held := make(map[string]bool, len(keys))
	for _, k := range keys {
		held[k] = true
	}

	var infos []LectureInfo
	for _, uri := range tree.LectureURIs() {
		lec, err := s.Lecture(uri, true)
		if err != nil {
			return nil, nil, err
		}
		if lec.Questions == nil {
			continue
		}

		grade := 0.0
		if a := lec.LastAnswer(); a != nil {
			grade = a.Grade()
		}

		offline := true
		for _, q := range lec.Questions {
			if !held[q.URI] {
				offline = false
				break
			}
		}

		infos = append(infos, LectureInfo{
			URI:     uri,
			Title:   lec.Title,
			Grade:   grade,
			Stats:   Summarize(lec).Stats,
			Synced:  lec.Synced(),
			Offline: offline,
		})
	}
	return tree, infos, nil
}

// formatGrade renders a grade the shortest way: 7 not 7.00, 7.25 as is.
func formatGrade(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
