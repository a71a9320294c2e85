package lecture

import (
	"encoding/base64"
	"encoding/json"
)

// Question type tags carried in QuestionTally.Type. Regular questions
// have no tag.
const (
	TypeHistorical = "historical"
	TypeTemplate   = "template"
)

// StudentAnswer is the free-form answer payload attached to an
// AnswerRecord. Its shape depends on the question type; the engine only
// interprets the practice flags and treats everything else opaquely.
type StudentAnswer map[string]any

// Practice reports whether this answer was made in practice mode.
func (sa StudentAnswer) Practice() bool {
	p, _ := sa["practice"].(bool)
	return p
}

// SetPracticeCorrect records the real verdict of a practice answer as a
// side annotation. The graded verdict of a practice answer stays nil.
func (sa StudentAnswer) SetPracticeCorrect(correct bool) {
	sa["practice_correct"] = correct
}

// AnswerRecord is one allocation in a lecture's answerQueue: a question
// assigned to the student, possibly answered, possibly reviewed.
//
// At most one record per lecture is open (TimeEnd zero) at any time, and
// an open record is always the last element of the queue.
type AnswerRecord struct {
	URI       string `json:"uri"`
	TimeStart int64  `json:"time_start,omitempty"`
	TimeEnd   int64  `json:"time_end,omitempty"`

	StudentAnswer StudentAnswer `json:"student_answer,omitempty"`

	// Correct is the graded verdict: true/false, or nil when the answer
	// is not independently markable (practice mode, free text).
	Correct *bool `json:"correct,omitempty"`

	GradeBefore    float64  `json:"grade_before"`
	GradeAfter     *float64 `json:"grade_after,omitempty"`
	GradeNextRight float64  `json:"grade_next_right,omitempty"`

	// Running totals along the queue; monotonically non-decreasing.
	LecAnswered      int `json:"lec_answered,omitempty"`
	LecCorrect       int `json:"lec_correct,omitempty"`
	PracticeAnswered int `json:"practice_answered,omitempty"`

	Synced   bool   `json:"synced"`
	ClientID string `json:"client_id,omitempty"`

	AllottedTime     int     `json:"allotted_time,omitempty"`
	RemainingTime    int     `json:"remaining_time,omitempty"`
	ExplanationDelay float64 `json:"explanation_delay,omitempty"`

	Review map[string]any `json:"review,omitempty"`
}

// Answered reports whether the record has been closed.
func (a *AnswerRecord) Answered() bool {
	return a.TimeEnd != 0
}

// Practice reports whether the record was allocated in practice mode.
func (a *AnswerRecord) Practice() bool {
	return a.StudentAnswer.Practice()
}

// Grade returns the record's current grade: GradeAfter when the record
// has been graded, GradeBefore otherwise.
func (a *AnswerRecord) Grade() float64 {
	if a.GradeAfter != nil {
		return *a.GradeAfter
	}
	return a.GradeBefore
}

// Clone returns a copy of the record. The StudentAnswer map is copied
// one level deep so the clone can be annotated independently.
func (a *AnswerRecord) Clone() *AnswerRecord {
	out := *a
	if a.StudentAnswer != nil {
		out.StudentAnswer = make(StudentAnswer, len(a.StudentAnswer))
		for k, v := range a.StudentAnswer {
			out.StudentAnswer[k] = v
		}
	}
	return &out
}

// QuestionTally is the per-question usage summary kept inside a Lecture:
// how often the question was chosen lecture-wide and how often it was
// answered correctly. The ratio of the two is the difficulty signal the
// allocation engine works from.
type QuestionTally struct {
	URI     string `json:"uri"`
	Chosen  int    `json:"chosen"`
	Correct int    `json:"correct"`

	// Type tags historical or template questions; empty for regular ones.
	Type string `json:"_type,omitempty"`

	OnlineOnly bool `json:"online_only,omitempty"`
}

// AnswerSpec is the machine-checkable correct-answer specification of a
// question: field name to either a list of acceptable values or a
// {"nonempty": 1} predicate. Keys starting with "_" tune the marking
// rather than naming an answer field.
//
// On the wire the whole spec may arrive base64-encoded (a light shield
// against students reading answers out of their replica store), so
// unmarshalling accepts both forms.
type AnswerSpec map[string]any

// UnmarshalJSON decodes either a JSON object or a base64-encoded JSON
// object.
func (s *AnswerSpec) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return err
		}
		data = decoded
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

// Question is the full content of one question, stored in the replica
// under the question's own URI and immutable once fetched.
type Question struct {
	URI     string   `json:"uri,omitempty"`
	Content string   `json:"content,omitempty"`
	Choices []string `json:"choices,omitempty"`

	// Shuffle hints which choice indices may be reordered for display.
	Shuffle []int    `json:"shuffle,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	Correct AnswerSpec `json:"correct,omitempty"`

	ReviewQuestions []ReviewQuestion `json:"review_questions,omitempty"`

	// Error is set by the server when the question failed to render;
	// such questions must be skipped, not shown.
	Error string `json:"error,omitempty"`
}

// ReviewQuestion is one prompt of the post-answer review form.
type ReviewQuestion struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Values [][]any `json:"values,omitempty"`
}

// Lecture is the unit of replication: one lecture, one student, with its
// settings, question tallies and full answer history.
type Lecture struct {
	URI   string `json:"uri,omitempty"`
	Path  string `json:"path,omitempty"`
	Title string `json:"title,omitempty"`

	// User owns the replica; a sync returning a different user aborts.
	User string `json:"user,omitempty"`

	Settings    RawSettings      `json:"settings,omitempty"`
	AnswerQueue []*AnswerRecord  `json:"answerQueue"`
	Questions   []*QuestionTally `json:"questions,omitempty"`

	MaterialTags []string `json:"material_tags,omitempty"`
	SlideURI     string   `json:"slide_uri,omitempty"`
	ReviewURI    string   `json:"review_uri,omitempty"`

	// QuestionURI is the bulk question endpoint for this lecture.
	QuestionURI string `json:"question_uri,omitempty"`

	// CurrentTime is filled in just before the lecture is POSTed so the
	// server can adjust for client clock skew.
	CurrentTime int64 `json:"current_time,omitempty"`

	// RemovedQuestions only appears in server responses: question URIs
	// the client should drop from its store.
	RemovedQuestions []string `json:"removed_questions,omitempty"`
}

// LastAnswer returns the tail of the answer queue, or nil when empty.
func (l *Lecture) LastAnswer() *AnswerRecord {
	if len(l.AnswerQueue) == 0 {
		return nil
	}
	return l.AnswerQueue[len(l.AnswerQueue)-1]
}

// Synced reports whether every record in the queue has been synced.
func (l *Lecture) Synced() bool {
	for _, a := range l.AnswerQueue {
		if !a.Synced {
			return false
		}
	}
	return true
}

// TallyFor returns the tally for the given question URI, or nil.
func (l *Lecture) TallyFor(uri string) *QuestionTally {
	for _, q := range l.Questions {
		if q.URI == uri {
			return q
		}
	}
	return nil
}

// SubscriptionNode is one node of the subscription tree: either an inner
// tutorial node with children or a leaf pointing at a lecture.
type SubscriptionNode struct {
	Title    string              `json:"title,omitempty"`
	Href     string              `json:"href,omitempty"`
	Children []*SubscriptionNode `json:"children,omitempty"`
}

// LectureURIs flattens the tree into the list of lecture hrefs, in tree
// order. A node with an href is a leaf; children below it are ignored.
func (n *SubscriptionNode) LectureURIs() []string {
	if n == nil {
		return nil
	}
	if n.Href != "" {
		return []string{n.Href}
	}
	var out []string
	for _, c := range n.Children {
		out = append(out, c.LectureURIs()...)
	}
	return out
}
