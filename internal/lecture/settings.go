package lecture

import (
	"fmt"
	"math"
	"strconv"
)

// RawSettings is the flat string-keyed settings bag as it arrives from
// the server. Values are strings or numbers; empty strings mean "use the
// default". It is parsed exactly once into a Config and never read ad
// hoc elsewhere.
type RawSettings map[string]any

// Float returns the named setting as a float, or def when the setting is
// absent, empty or unparseable.
func (s RawSettings) Float(key string, def float64) float64 {
	raw, ok := s[key]
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// Has reports whether the named setting is present and non-empty.
func (s RawSettings) Has(key string) bool {
	raw, ok := s[key]
	if !ok {
		return false
	}
	str, isStr := raw.(string)
	return !isStr || str != ""
}

// String returns the named setting as a string, or def.
func (s RawSettings) String(key string, def string) string {
	raw, ok := s[key]
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return def
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return def
}

// Config is the typed view of a lecture's settings. Every default below
// is load-bearing: changing one changes real student grades.
type Config struct {
	// Grading curve.
	GradeAlgorithm string  // "", "scorrect" or "ratiocorrect"
	GradeAlpha     float64 // weight of the most recent answer
	GradeS         float64 // shape of the recency decay
	GradeNMin      float64 // fewest answers the curve spans
	GradeNMax      float64 // most answers the curve considers

	// Allocation.
	HistSel      float64 // probability of drawing from a historical lecture
	ProbTemplate float64 // total mass given to template questions
	AdaptiveGPow float64 // skew exponent on the grade-driven distribution

	// Study-time delay before explanations are shown.
	StudyTimeFactor         float64
	StudyTimeAnsweredFactor float64
	StudyTimeMax            float64

	// Practice quota.
	PracticeAfter float64 // real answers needed per practice batch; 0 = unlimited
	PracticeBatch float64 // practice answers granted per batch

	// Per-question timeout curve; disabled unless both bounds are set.
	TimeoutSet   bool
	TimeoutMin   float64 // minutes
	TimeoutMax   float64 // minutes
	TimeoutGrade float64 // grade at which the minimum applies
	TimeoutStd   float64 // spread of the curve

	// Award amounts, in milli-SMLY, for the grade summary.
	AwardStageAced    float64
	AwardTutorialAced float64
}

// DefaultConfig returns the enumerated defaults applied when a setting
// is absent.
func DefaultConfig() Config {
	return Config{
		GradeAlpha:              0.3,
		GradeS:                  2,
		GradeNMin:               8,
		GradeNMax:               30,
		HistSel:                 0,
		ProbTemplate:            0,
		AdaptiveGPow:            1,
		StudyTimeFactor:         2,
		StudyTimeAnsweredFactor: 0,
		StudyTimeMax:            20,
		PracticeAfter:           0,
		PracticeBatch:           math.Inf(1),
		TimeoutGrade:            5,
		TimeoutStd:              0.5,
	}
}

// ParseConfig populates a Config from the raw settings bag, falling back
// to the defaults table for anything absent or blank.
func ParseConfig(raw RawSettings) Config {
	cfg := DefaultConfig()
	if raw == nil {
		return cfg
	}
	cfg.GradeAlgorithm = raw.String("grade_algorithm", cfg.GradeAlgorithm)
	cfg.GradeAlpha = raw.Float("grade_alpha", cfg.GradeAlpha)
	cfg.GradeS = raw.Float("grade_s", cfg.GradeS)
	cfg.GradeNMin = raw.Float("grade_nmin", cfg.GradeNMin)
	cfg.GradeNMax = raw.Float("grade_nmax", cfg.GradeNMax)
	cfg.HistSel = raw.Float("hist_sel", cfg.HistSel)
	cfg.ProbTemplate = raw.Float("prob_template", cfg.ProbTemplate)
	cfg.AdaptiveGPow = raw.Float("iaa_adaptive_gpow", cfg.AdaptiveGPow)
	cfg.StudyTimeFactor = raw.Float("studytime_factor", cfg.StudyTimeFactor)
	cfg.StudyTimeAnsweredFactor = raw.Float("studytime_answeredfactor", cfg.StudyTimeAnsweredFactor)
	cfg.StudyTimeMax = raw.Float("studytime_max", cfg.StudyTimeMax)
	cfg.PracticeAfter = raw.Float("practice_after", cfg.PracticeAfter)
	cfg.PracticeBatch = raw.Float("practice_batch", cfg.PracticeBatch)
	cfg.AwardStageAced = raw.Float("award_stage_aced", cfg.AwardStageAced)
	cfg.AwardTutorialAced = raw.Float("award_tutorial_aced", cfg.AwardTutorialAced)

	if raw.Has("timeout_min") && raw.Has("timeout_max") {
		cfg.TimeoutSet = true
		cfg.TimeoutMin = raw.Float("timeout_min", 0)
		cfg.TimeoutMax = raw.Float("timeout_max", 0)
		cfg.TimeoutGrade = raw.Float("timeout_grade", cfg.TimeoutGrade)
		cfg.TimeoutStd = raw.Float("timeout_std", cfg.TimeoutStd)
	}
	return cfg
}

// Validate checks basic sanity of a parsed Config. Server settings are
// additionally schema-checked before they reach this point (ValidateRaw).
func (c Config) Validate() error {
	if c.GradeAlpha < 0 || c.GradeAlpha > 1 {
		return fmt.Errorf("grade_alpha %v outside [0, 1]", c.GradeAlpha)
	}
	if c.GradeNMin < 1 || c.GradeNMax < c.GradeNMin {
		return fmt.Errorf("grade window [%v, %v] invalid", c.GradeNMin, c.GradeNMax)
	}
	if c.HistSel < 0 || c.HistSel > 1 {
		return fmt.Errorf("hist_sel %v outside [0, 1]", c.HistSel)
	}
	if c.ProbTemplate < 0 || c.ProbTemplate > 1 {
		return fmt.Errorf("prob_template %v outside [0, 1]", c.ProbTemplate)
	}
	return nil
}
