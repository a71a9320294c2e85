package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/tutor-web/quizclient/internal/api"
	"github.com/tutor-web/quizclient/internal/iaa"
	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/quiz"
	"github.com/tutor-web/quizclient/internal/store"
)

// ProgressFunc receives sync progress: done out of total steps, plus a
// short human-readable message.
type ProgressFunc func(done, total int, message string)

func noProgress(int, int, string) {}

// LectureOptions steer a single lecture sync.
type LectureOptions struct {
	// Force syncs even when every queue record is already synced.
	Force bool

	// FetchMissing treats an absent replica copy as an empty lecture
	// to be fetched, rather than an error.
	FetchMissing bool

	// ForceQuestions refetches the question bank even when the replica
	// has every question.
	ForceQuestions bool

	// SkipCleanup leaves garbage collection to the caller.
	SkipCleanup bool
}

// Options steer a full subscription sync.
type Options struct {
	// Force passes Force through to every lecture sync.
	Force bool

	// SkipCleanup leaves garbage collection to the caller.
	SkipCleanup bool

	// Add subscribes to this path before syncing, Del unsubscribes
	// from this path. Both are committed server-side even if the rest
	// of the sync fails.
	Add string
	Del string
}

// Syncer reconciles the replica with the server.
type Syncer struct {
	store  store.Store
	client api.Client
	now    func() int64
	log    *slog.Logger
}

// Option adjusts a Syncer.
type Option func(*Syncer)

// WithClock substitutes the epoch-seconds time source.
func WithClock(now func() int64) Option {
	return func(s *Syncer) { s.now = now }
}

// WithLogger sets the sync logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Syncer) { s.log = log }
}

// New returns a Syncer over the given replica and server client.
func New(st store.Store, client api.Client, opts ...Option) *Syncer {
	s := &Syncer{
		store:  st,
		client: client,
		now:    func() int64 { return time.Now().Unix() },
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncLecture brings one lecture up to date with the server: answers
// flow up, the merged queue and fresh question bank flow back down.
// Progress is reported over three steps.
func (s *Syncer) SyncLecture(ctx context.Context, lecURI string, opts LectureOptions, progress ProgressFunc) error {
	if progress == nil {
		progress = noProgress
	}

	pre, err := s.loadLecture(lecURI, opts.FetchMissing)
	if err != nil {
		return err
	}
	if !opts.Force && pre.Questions != nil && pre.Synced() {
		s.log.Debug("lecture already synced", "lecture", lecURI)
		progress(3, 3, "Done")
		return nil
	}
	progress(0, 3, "Fetching lecture...")

	pre.CurrentTime = s.now()
	server, err := s.client.SyncLecture(ctx, pre)
	if err != nil {
		return err
	}

	// The replica must stay untouched when the server speaks for a
	// different user, so this check precedes every write.
	if pre.User != "" && server.User != pre.User {
		return lecture.Errorf(lecture.KindUserMismatch,
			"you are trying to download a lecture as %q, but you were logged in previously as %q; log out first",
			server.User, pre.User).
			WithContext("lecture", lecURI)
	}
	if err := lecture.ValidateRaw(server.Settings); err != nil {
		return lecture.Errorf(lecture.KindValidation, "server settings rejected: %v", err).
			WithContext("lecture", lecURI)
	}

	// The student may have answered more questions while the request
	// was in flight; merge against the freshest queue.
	current, err := s.loadLecture(lecURI, true)
	if err != nil {
		return err
	}

	merged := server
	merged.URI = lecURI
	merged.AnswerQueue = Merge(pre.AnswerQueue, current.AnswerQueue, server.AnswerQueue)
	iaa.GradeAllocation(lecture.ParseConfig(merged.Settings), merged.AnswerQueue)

	removed := merged.RemovedQuestions
	merged.RemovedQuestions = nil
	if err := store.SetJSON(s.store, lecURI, merged); err != nil {
		return err
	}
	for _, uri := range removed {
		if err := s.store.Remove(uri); err != nil {
			return err
		}
	}

	if err := s.fetchQuestions(ctx, lecURI, merged, opts.ForceQuestions, progress); err != nil {
		return err
	}

	progress(2, 3, "Tidying up...")
	if !opts.SkipCleanup {
		if _, err := quiz.RemoveUnusedObjects(s.store); err != nil {
			return err
		}
	}
	progress(3, 3, "Done")
	return nil
}

// fetchQuestions refills the question bank when forced, empty, or when
// any referenced question is missing from the replica.
func (s *Syncer) fetchQuestions(ctx context.Context, lecURI string, lec *lecture.Lecture, force bool, progress ProgressFunc) error {
	needed := force || len(lec.Questions) == 0
	if !needed {
		for _, q := range lec.Questions {
			if q.OnlineOnly {
				continue
			}
			if _, ok, err := s.store.Get(q.URI); err != nil {
				return err
			} else if !ok {
				needed = true
				break
			}
		}
	}
	if !needed {
		return nil
	}

	progress(1, 3, "Fetching questions...")
	bundle, err := s.client.GetQuestions(ctx, lec)
	if err != nil {
		return err
	}

	lec.Questions = bundle.Stats
	if err := store.SetJSON(s.store, lecURI, lec); err != nil {
		return err
	}
	for uri, qn := range bundle.Data {
		if err := store.SetJSON(s.store, uri, qn); err != nil {
			return err
		}
	}
	return nil
}

// loadLecture reads a lecture from the replica, optionally treating an
// absent one as an empty shell with just the URI set.
func (s *Syncer) loadLecture(lecURI string, missingOkay bool) (*lecture.Lecture, error) {
	var lec lecture.Lecture
	ok, err := store.GetJSON(s.store, lecURI, &lec)
	if err != nil {
		return nil, err
	}
	if !ok && !missingOkay {
		return nil, lecture.Errorf(lecture.KindNotFound, "unknown lecture: %s", lecURI).
			WithContext("lecture", lecURI)
	}
	if lec.URI == "" {
		lec.URI = lecURI
	}
	if lec.AnswerQueue == nil {
		lec.AnswerQueue = []*lecture.AnswerRecord{}
	}
	return &lec, nil
}
