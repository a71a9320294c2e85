package quiz

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tutor-web/quizclient/internal/api"
	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/store"
	"github.com/tutor-web/quizclient/internal/testutil"
)

// fakeClient serves canned lectures and questions, recording calls.
type fakeClient struct {
	questions map[string]*lecture.Question
	lectures  map[string]*lecture.Lecture
	bundles   map[string]*api.QuestionBundle
	tree      *lecture.SubscriptionNode

	questionFetches []string
	subAdds         []string
	subRemoves      []string
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) SyncLecture(ctx context.Context, lec *lecture.Lecture) (*lecture.Lecture, error) {
	out, ok := f.lectures[lec.URI]
	if !ok {
		return nil, lecture.Errorf(lecture.KindNotFound, "no lecture %s", lec.URI)
	}
	return out, nil
}

func (f *fakeClient) GetQuestion(ctx context.Context, lec *lecture.Lecture, uri string) (*lecture.Question, error) {
	f.questionFetches = append(f.questionFetches, uri)
	qn, ok := f.questions[uri]
	if !ok {
		return nil, lecture.Errorf(lecture.KindNotFound, "no question %s", uri)
	}
	return qn, nil
}

func (f *fakeClient) GetQuestions(ctx context.Context, lec *lecture.Lecture) (*api.QuestionBundle, error) {
	bundle, ok := f.bundles[lec.URI]
	if !ok {
		return nil, lecture.Errorf(lecture.KindNotFound, "no questions for %s", lec.URI)
	}
	return bundle, nil
}

func (f *fakeClient) AddSubscription(ctx context.Context, path string) error {
	f.subAdds = append(f.subAdds, path)
	return nil
}

func (f *fakeClient) RemoveSubscription(ctx context.Context, path string) error {
	f.subRemoves = append(f.subRemoves, path)
	return nil
}

func (f *fakeClient) ListSubscriptions(ctx context.Context) (*lecture.SubscriptionNode, error) {
	if f.tree == nil {
		return nil, lecture.Errorf(lecture.KindNetwork, "no subscriptions")
	}
	return f.tree, nil
}

// testSession wires a session over a fresh memory store with a fixed
// clock and RNG.
func testSession(t *testing.T, client *fakeClient) (*Session, *store.Memory, *testutil.Clock) {
	t.Helper()
	st := store.NewMemory()
	clock := testutil.NewClock(100000)
	s := NewSession(st, client,
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(42))))
	return s, st, clock
}

// seedLecture stores a lecture plus the content of its questions.
func seedLecture(t *testing.T, st store.Store, lec *lecture.Lecture, qns map[string]*lecture.Question) {
	t.Helper()
	require.NoError(t, store.SetJSON(st, lec.URI, lec))
	for uri, qn := range qns {
		require.NoError(t, store.SetJSON(st, uri, qn))
	}
	require.NoError(t, store.SetJSON(st, store.KeySubscriptions, &lecture.SubscriptionNode{
		Children: []*lecture.SubscriptionNode{{Href: lec.URI}},
	}))
}

// simpleLecture has two always-available questions with a known answer.
func simpleLecture() (*lecture.Lecture, map[string]*lecture.Question) {
	lec := &lecture.Lecture{
		URI:          "ut:lecture0",
		Path:         "ut/lecture0",
		Title:        "Unit test lecture",
		MaterialTags: []string{"math"},
		Questions: []*lecture.QuestionTally{
			{URI: "ut:qn0", Chosen: 10, Correct: 5},
			{URI: "ut:qn1", Chosen: 10, Correct: 5},
		},
	}
	qns := map[string]*lecture.Question{
		"ut:qn0": {URI: "ut:qn0", Content: "<p>q0</p>", Correct: lecture.AnswerSpec{"answer": []any{"a"}}},
		"ut:qn1": {URI: "ut:qn1", Content: "<p>q1</p>", Correct: lecture.AnswerSpec{"answer": []any{"a"}}},
	}
	return lec, qns
}
