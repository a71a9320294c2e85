package api

import (
	"context"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// QuestionBundle is the bulk material response for one lecture: the
// up-to-date per-question tallies plus the full content of every
// question, keyed by URI.
type QuestionBundle struct {
	Stats []*lecture.QuestionTally     `json:"stats"`
	Data  map[string]*lecture.Question `json:"data"`
}

// Client is the server surface the sync engine needs. The HTTP
// implementation is HTTPClient; tests substitute their own.
type Client interface {
	// SyncLecture POSTs the client's copy of the lecture to its own
	// URI and returns the server's authoritative version.
	SyncLecture(ctx context.Context, lec *lecture.Lecture) (*lecture.Lecture, error)

	// GetQuestion fetches a single question of the lecture.
	GetQuestion(ctx context.Context, lec *lecture.Lecture, questionURI string) (*lecture.Question, error)

	// GetQuestions fetches the lecture's whole question bank.
	GetQuestions(ctx context.Context, lec *lecture.Lecture) (*QuestionBundle, error)

	// AddSubscription subscribes the student to the tutorial or
	// lecture at path.
	AddSubscription(ctx context.Context, path string) error

	// RemoveSubscription removes the subscription at path.
	RemoveSubscription(ctx context.Context, path string) error

	// ListSubscriptions returns the student's subscription tree.
	ListSubscriptions(ctx context.Context) (*lecture.SubscriptionNode, error)
}
