package quiz

import (
	"sort"

	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/store"
)

// RemoveUnusedObjects deletes every stored document nothing references:
// lectures that fell out of the subscription tree and questions that
// fell out of their lecture's bank. The subscription tree and the
// client id are always kept. Returns the removed keys, sorted.
//
// The walk is a refcount over a key snapshot, so the operation is
// idempotent and insensitive to tree order.
func RemoveUnusedObjects(st store.Store) ([]string, error) {
	keys, err := st.ListKeys()
	if err != nil {
		return nil, err
	}
	count := make(map[string]int, len(keys))
	for _, k := range keys {
		count[k] = 0
	}

	count[store.KeySubscriptions]++
	count[store.KeyClientID]++

	var tree lecture.SubscriptionNode
	if ok, err := store.GetJSON(st, store.KeySubscriptions, &tree); err != nil {
		return nil, err
	} else if ok {
		for _, uri := range tree.LectureURIs() {
			count[uri]++

			var lec lecture.Lecture
			if ok, err := store.GetJSON(st, uri, &lec); err != nil {
				return nil, err
			} else if ok {
				for _, q := range lec.Questions {
					count[q.URI]++
				}
			}
		}
	}

	var removed []string
	for k, n := range count {
		if n != 0 {
			continue
		}
		if err := st.Remove(k); err != nil {
			return nil, err
		}
		removed = append(removed, k)
	}
	sort.Strings(removed)
	return removed, nil
}

// RemoveUnusedObjects runs the garbage collector over the session's
// replica.
func (s *Session) RemoveUnusedObjects() ([]string, error) {
	return RemoveUnusedObjects(s.store)
}
