package quiz

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tutor-web/quizclient/internal/api"
	"github.com/tutor-web/quizclient/internal/iaa"
	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/store"
)

// Continuing reports whether selecting a lecture resumes an open
// question.
type Continuing string

const (
	ContinuingNone     Continuing = ""
	ContinuingReal     Continuing = "real"
	ContinuingPractice Continuing = "practice"
)

// State is the session snapshot returned by lecture selection and
// answer operations: enough for a front end to decide what to offer
// next.
type State struct {
	Answer          *lecture.AnswerRecord
	Continuing      Continuing
	LectureURI      string
	LectureTitle    string
	MaterialTags    []string
	PracticeAllowed float64
}

// Session drives one student through lectures held in the replica
// store.
type Session struct {
	store  store.Store
	client api.Client
	now    func() int64
	rng    *rand.Rand
	log    *slog.Logger

	lecURI string
}

// Option adjusts a Session.
type Option func(*Session)

// WithClock substitutes the epoch-seconds time source.
func WithClock(now func() int64) Option {
	return func(s *Session) { s.now = now }
}

// WithRand substitutes the allocation RNG, pinning draws in tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession returns a session over the given replica and server
// client.
func NewSession(st store.Store, client api.Client, opts ...Option) *Session {
	s := &Session{
		store:  st,
		client: client,
		now:    func() int64 { return time.Now().Unix() },
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentLectureURI returns the selected lecture's URI, or "".
func (s *Session) CurrentLectureURI() string {
	return s.lecURI
}

// SetCurrentLecture selects the lecture to work on, regrades its queue
// and reports whether an open question is being resumed.
func (s *Session) SetCurrentLecture(lecURI string) (*State, error) {
	if lecURI == "" {
		return nil, lecture.Errorf(lecture.KindValidation, "lecture URI required")
	}
	s.lecURI = lecURI

	lec, err := s.Lecture(lecURI, false)
	if err != nil {
		return nil, err
	}

	cfg := lecture.ParseConfig(lec.Settings)
	iaa.GradeAllocation(cfg, lec.AnswerQueue)
	if err := s.PutLecture(lec); err != nil {
		return nil, err
	}

	continuing := ContinuingNone
	last := lec.LastAnswer()
	if last != nil && !last.Answered() {
		if last.Practice() {
			continuing = ContinuingPractice
		} else {
			continuing = ContinuingReal
		}
	}

	return &State{
		Answer:          last,
		Continuing:      continuing,
		LectureURI:      lec.URI,
		LectureTitle:    lec.Title,
		MaterialTags:    lec.MaterialTags,
		PracticeAllowed: iaa.PracticeAllowed(cfg, lec.AnswerQueue),
	}, nil
}

// Lecture loads a lecture from the replica. With missingOkay an absent
// lecture comes back as an empty shell carrying just the URI, the way a
// first sync expects it.
func (s *Session) Lecture(lecURI string, missingOkay bool) (*lecture.Lecture, error) {
	if lecURI == "" {
		lecURI = s.lecURI
	}
	if lecURI == "" {
		return nil, lecture.Errorf(lecture.KindValidation, "no lecture selected")
	}

	var lec lecture.Lecture
	ok, err := store.GetJSON(s.store, lecURI, &lec)
	if err != nil {
		return nil, err
	}
	if !ok {
		if !missingOkay {
			if _, hasSubs, err := s.store.Get(store.KeySubscriptions); err != nil {
				return nil, err
			} else if !hasSubs {
				return nil, lecture.Errorf(lecture.KindNotFound, "subscriptions not yet downloaded")
			}
			return nil, lecture.Errorf(lecture.KindNotFound, "unknown lecture: %s", lecURI).
				WithContext("lecture", lecURI)
		}
		lec = lecture.Lecture{}
	}
	if lec.URI == "" {
		lec.URI = lecURI
	}
	if lec.AnswerQueue == nil {
		lec.AnswerQueue = []*lecture.AnswerRecord{}
	}
	return &lec, nil
}

// PutLecture writes a lecture back to the replica under its URI.
func (s *Session) PutLecture(lec *lecture.Lecture) error {
	return store.SetJSON(s.store, lec.URI, lec)
}

// Subscriptions returns the stored subscription tree. With missingOkay
// an absent tree is created empty.
func (s *Session) Subscriptions(missingOkay bool) (*lecture.SubscriptionNode, error) {
	var tree lecture.SubscriptionNode
	ok, err := store.GetJSON(s.store, store.KeySubscriptions, &tree)
	if err != nil {
		return nil, err
	}
	if !ok {
		if !missingOkay {
			return nil, lecture.Errorf(lecture.KindNotFound, "no subscriptions table")
		}
		tree = lecture.SubscriptionNode{Children: []*lecture.SubscriptionNode{}}
		if err := store.SetJSON(s.store, store.KeySubscriptions, &tree); err != nil {
			return nil, err
		}
	}
	return &tree, nil
}

// PutSubscriptions replaces the stored subscription tree.
func (s *Session) PutSubscriptions(tree *lecture.SubscriptionNode) error {
	return store.SetJSON(s.store, store.KeySubscriptions, tree)
}

// InsertQuestions stores a batch of question documents under their
// URIs.
func (s *Session) InsertQuestions(qns map[string]*lecture.Question) error {
	for uri, qn := range qns {
		if err := store.SetJSON(s.store, uri, qn); err != nil {
			return err
		}
	}
	return nil
}

// ClientID returns this installation's identity, generating and
// persisting one on first use.
func (s *Session) ClientID() (string, error) {
	var id string
	ok, err := store.GetJSON(s.store, store.KeyClientID, &id)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := store.SetJSON(s.store, store.KeyClientID, id); err != nil {
		return "", err
	}
	return id, nil
}
