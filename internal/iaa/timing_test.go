package iaa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// wrongRunQueue builds a queue from verdicts; nil means ungraded.
func wrongRunQueue(verdicts ...*bool) []*lecture.AnswerRecord {
	out := make([]*lecture.AnswerRecord, len(verdicts))
	for i, v := range verdicts {
		out[i] = &lecture.AnswerRecord{URI: "q", TimeStart: 1, TimeEnd: 2, Correct: v}
	}
	return out
}

func studyCfg(factor, answeredFactor, max float64) lecture.Config {
	cfg := lecture.DefaultConfig()
	cfg.StudyTimeFactor = factor
	cfg.StudyTimeAnsweredFactor = answeredFactor
	cfg.StudyTimeMax = max
	return cfg
}

func TestQuestionStudyTime_EmptyQueue(t *testing.T) {
	assert.Equal(t, 0.0, QuestionStudyTime(lecture.DefaultConfig(), nil))
}

func TestQuestionStudyTime_GrowsWithWrongRun(t *testing.T) {
	cfg := lecture.DefaultConfig()
	f := boolPtr(false)

	var queue []*lecture.AnswerRecord
	for i, want := range []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20} {
		queue = append(queue, wrongRunQueue(f)...)
		assert.Equal(t, want, QuestionStudyTime(cfg, queue), "after %d wrong answers", i+1)
	}
}

func TestQuestionStudyTime_CorrectResetsRun(t *testing.T) {
	cfg := lecture.DefaultConfig()
	f, c := boolPtr(false), boolPtr(true)

	assert.Equal(t, 8.0, QuestionStudyTime(cfg, wrongRunQueue(f, f, f, f)))
	assert.Equal(t, 0.0, QuestionStudyTime(cfg, wrongRunQueue(f, f, f, f, c)))
	assert.Equal(t, 2.0, QuestionStudyTime(cfg, wrongRunQueue(f, f, f, f, c, f)))
}

func TestQuestionStudyTime_UngradedStopsRun(t *testing.T) {
	cfg := lecture.DefaultConfig()
	f, c := boolPtr(false), boolPtr(true)

	assert.Equal(t, 0.0, QuestionStudyTime(cfg, wrongRunQueue(c, f, nil)))
	assert.Equal(t, 2.0, QuestionStudyTime(cfg, wrongRunQueue(c, f, nil, f)))
}

func TestQuestionStudyTime_Overrides(t *testing.T) {
	cfg := studyCfg(3, 0, 10)
	f := boolPtr(false)

	assert.Equal(t, 3.0, QuestionStudyTime(cfg, wrongRunQueue(f)))
	assert.Equal(t, 10.0, QuestionStudyTime(cfg, wrongRunQueue(f, f, f, f, f, f, f, f, f, f, f, f)))
}

func TestQuestionStudyTime_AnsweredFactor(t *testing.T) {
	f, c := boolPtr(false), boolPtr(true)

	// Off by default.
	queue := wrongRunQueue(f)
	queue[0].LecAnswered = 40
	assert.Equal(t, 2.0, QuestionStudyTime(lecture.DefaultConfig(), queue))

	// Adds per answered question when enabled, only from the tail.
	cfg := studyCfg(2, 0.3, 20)
	assert.Equal(t, 2.0+0.3*40, QuestionStudyTime(cfg, queue))

	queue = wrongRunQueue(c)
	queue[0].LecAnswered = 40
	assert.Equal(t, 0.3*40, QuestionStudyTime(cfg, queue), "delay applies even after a correct answer")
}

func timeoutCfg(min, max float64) lecture.Config {
	cfg := lecture.DefaultConfig()
	cfg.TimeoutSet = true
	cfg.TimeoutMin = min
	cfg.TimeoutMax = max
	return cfg
}

func TestQnTimeout_Unset(t *testing.T) {
	_, ok := QnTimeout(lecture.DefaultConfig(), 5)
	assert.False(t, ok)
}

func TestQnTimeout_BellCurve(t *testing.T) {
	cfg := timeoutCfg(3, 7)

	// At the target grade the allowance is the minimum.
	got, ok := QnTimeout(cfg, 5)
	assert.True(t, ok)
	assert.Equal(t, 180, got)

	// Far from the target it approaches the maximum.
	got, _ = QnTimeout(cfg, 0)
	assert.Equal(t, 420, got)
	got, _ = QnTimeout(cfg, 10)
	assert.Equal(t, 420, got)

	// Symmetric around the target.
	lo, _ := QnTimeout(cfg, 4)
	hi, _ := QnTimeout(cfg, 6)
	assert.Equal(t, lo, hi)
	assert.Greater(t, lo, 180)
	assert.Less(t, lo, 420)
}

func TestQnTimeout_CustomShape(t *testing.T) {
	cfg := timeoutCfg(3, 7)
	cfg.TimeoutGrade = 8
	cfg.TimeoutStd = 2

	got, _ := QnTimeout(cfg, 8)
	assert.Equal(t, 180, got)

	// A wider std leaves mid grades closer to the minimum.
	mid, _ := QnTimeout(cfg, 6)
	narrow := timeoutCfg(3, 7)
	narrow.TimeoutGrade = 8
	narrowMid, _ := QnTimeout(narrow, 6)
	assert.Less(t, mid, narrowMid)
}
