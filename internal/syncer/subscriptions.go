package syncer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tutor-web/quizclient/internal/quiz"
	"github.com/tutor-web/quizclient/internal/store"
)

// lectureBatch is how many lectures are synced concurrently.
const lectureBatch = 6

// SyncSubscriptions applies any pending subscribe/unsubscribe, refreshes
// the subscription tree from the server, then syncs every subscribed
// lecture in batches. Progress total is one step per lecture plus one
// for the final cleanup.
func (s *Syncer) SyncSubscriptions(ctx context.Context, opts Options, progress ProgressFunc) error {
	if progress == nil {
		progress = noProgress
	}

	// Subscription changes are committed server-side first, so a later
	// failure never loses them.
	if opts.Add != "" {
		if err := s.client.AddSubscription(ctx, opts.Add); err != nil {
			return err
		}
	}
	if opts.Del != "" {
		if err := s.client.RemoveSubscription(ctx, opts.Del); err != nil {
			return err
		}
	}

	tree, err := s.client.ListSubscriptions(ctx)
	if err != nil {
		return err
	}
	if err := store.SetJSON(s.store, store.KeySubscriptions, tree); err != nil {
		return err
	}

	// After an unsubscribe, drop the lecture's objects before fetching
	// anything new, so the sync never grows the store past its peak.
	if opts.Del != "" && !opts.SkipCleanup {
		if _, err := quiz.RemoveUnusedObjects(s.store); err != nil {
			return err
		}
	}

	uris := tree.LectureURIs()
	total := len(uris) + 1

	var mu sync.Mutex
	succeeded := 0

	for start := 0; start < len(uris); start += lectureBatch {
		end := min(start+lectureBatch, len(uris))

		g, gctx := errgroup.WithContext(ctx)
		for _, uri := range uris[start:end] {
			g.Go(func() error {
				return s.SyncLecture(gctx, uri, LectureOptions{
					Force:        opts.Force,
					FetchMissing: true,
					SkipCleanup:  true,
				}, func(done, lecTotal int, message string) {
					mu.Lock()
					defer mu.Unlock()
					if done == lecTotal {
						succeeded++
					}
					progress(succeeded, total, uri+": "+message)
				})
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	progress(len(uris), total, "Tidying up...")
	if !opts.SkipCleanup {
		if _, err := quiz.RemoveUnusedObjects(s.store); err != nil {
			return err
		}
	}
	progress(total, total, "Done")
	return nil
}
