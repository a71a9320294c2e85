package syncer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tutor-web/quizclient/internal/api"
	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/store"
	"github.com/tutor-web/quizclient/internal/testutil"
)

// fakeClient serves canned server responses and records calls. Lecture
// syncs run concurrently during a subscription sync, so every method is
// safe for concurrent use.
type fakeClient struct {
	mu sync.Mutex

	lectures map[string]*lecture.Lecture
	bundles  map[string]*api.QuestionBundle
	tree     *lecture.SubscriptionNode

	// onSyncLecture runs inside SyncLecture before the canned response
	// is returned, to simulate activity while the request is in flight.
	onSyncLecture func(lec *lecture.Lecture)

	syncCalls    []string
	bundleCalls  []string
	subAdds      []string
	subRemoves   []string
	inFlight     int
	peakInFlight int
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) SyncLecture(ctx context.Context, lec *lecture.Lecture) (*lecture.Lecture, error) {
	f.mu.Lock()
	f.syncCalls = append(f.syncCalls, lec.URI)
	f.inFlight++
	if f.inFlight > f.peakInFlight {
		f.peakInFlight = f.inFlight
	}
	hook := f.onSyncLecture
	out, ok := f.lectures[lec.URI]
	f.mu.Unlock()

	if hook != nil {
		hook(lec)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if !ok {
		return nil, lecture.Errorf(lecture.KindNotFound, "no lecture %s", lec.URI)
	}
	return out, nil
}

func (f *fakeClient) GetQuestion(ctx context.Context, lec *lecture.Lecture, uri string) (*lecture.Question, error) {
	return nil, lecture.Errorf(lecture.KindNotFound, "no question %s", uri)
}

func (f *fakeClient) GetQuestions(ctx context.Context, lec *lecture.Lecture) (*api.QuestionBundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bundleCalls = append(f.bundleCalls, lec.URI)
	bundle, ok := f.bundles[lec.URI]
	if !ok {
		return nil, lecture.Errorf(lecture.KindNotFound, "no questions for %s", lec.URI)
	}
	return bundle, nil
}

func (f *fakeClient) AddSubscription(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subAdds = append(f.subAdds, path)
	return nil
}

func (f *fakeClient) RemoveSubscription(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subRemoves = append(f.subRemoves, path)
	return nil
}

func (f *fakeClient) ListSubscriptions(ctx context.Context) (*lecture.SubscriptionNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tree == nil {
		return nil, lecture.Errorf(lecture.KindNetwork, "no subscriptions")
	}
	return f.tree, nil
}

// testSyncer wires a syncer over a fresh memory store with a fixed
// clock.
func testSyncer(t *testing.T, client *fakeClient) (*Syncer, *store.Memory, *testutil.Clock) {
	t.Helper()
	st := store.NewMemory()
	clock := testutil.NewClock(100000)
	s := New(st, client, WithClock(clock.Now))
	return s, st, clock
}

// serverLecture is a canned server response with one question and a
// matching bundle.
func serverLecture(uri string) (*lecture.Lecture, *api.QuestionBundle) {
	lec := &lecture.Lecture{
		URI:   uri,
		Path:  "ut/" + uri,
		Title: "Lecture " + uri,
		User:  "alice",
		Questions: []*lecture.QuestionTally{
			{URI: uri + ":qn0", Chosen: 10, Correct: 5},
		},
		AnswerQueue: []*lecture.AnswerRecord{},
	}
	bundle := &api.QuestionBundle{
		Stats: []*lecture.QuestionTally{
			{URI: uri + ":qn0", Chosen: 11, Correct: 5},
		},
		Data: map[string]*lecture.Question{
			uri + ":qn0": {URI: uri + ":qn0", Content: "<p>q</p>"},
		},
	}
	return lec, bundle
}

// progressLog records every progress callback for assertions.
type progressLog struct {
	mu      sync.Mutex
	entries []progressEntry
}

type progressEntry struct {
	done, total int
	message     string
}

func (p *progressLog) fn(done, total int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, progressEntry{done, total, message})
}

func (p *progressLog) last(t *testing.T) progressEntry {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.entries)
	return p.entries[len(p.entries)-1]
}

// storeSnapshot captures every key/value pair for before/after diffs.
func storeSnapshot(t *testing.T, st store.Store) map[string]string {
	t.Helper()
	keys, err := st.ListKeys()
	require.NoError(t, err)
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		raw, ok, err := st.Get(k)
		require.NoError(t, err)
		require.True(t, ok)
		out[k] = string(raw)
	}
	return out
}
