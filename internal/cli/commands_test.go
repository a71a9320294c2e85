package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutor-web/quizclient/internal/api"
	"github.com/tutor-web/quizclient/internal/lecture"
	"github.com/tutor-web/quizclient/internal/store"
)

func TestNextThenAnswer_CorrectFlow(t *testing.T) {
	path := seedReplica(t)

	out, err := executeCommand(t, "next", "ut:lecture0", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "What is 1+1?")
	assert.Contains(t, out, "1) 2")

	out, err = executeCommand(t, "answer", "ut:lecture0", "2", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Grade: 3.5")
}

func TestNext_ResumesOpenQuestion(t *testing.T) {
	path := seedReplica(t)

	_, err := executeCommand(t, "next", "ut:lecture0", "--store", path)
	require.NoError(t, err)
	out, err := executeCommand(t, "next", "ut:lecture0", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "What is 1+1?")
}

func TestAnswer_WrongAnswer(t *testing.T) {
	path := seedReplica(t)

	_, err := executeCommand(t, "next", "ut:lecture0", "--store", path)
	require.NoError(t, err)
	out, err := executeCommand(t, "answer", "ut:lecture0", "1", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrong.")
}

func TestAnswer_NoOpenQuestion(t *testing.T) {
	path := seedReplica(t)

	_, err := executeCommand(t, "answer", "ut:lecture0", "2", "--store", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestAnswer_RequiresValueOrData(t *testing.T) {
	path := seedReplica(t)

	_, err := executeCommand(t, "answer", "ut:lecture0", "--store", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAnswer_InvalidDataJSON(t *testing.T) {
	path := seedReplica(t)

	_, err := executeCommand(t, "answer", "ut:lecture0", "--data", "{bad", "--store", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSummary_TextOutput(t *testing.T) {
	path := seedReplica(t)

	_, err := executeCommand(t, "next", "ut:lecture0", "--store", path)
	require.NoError(t, err)
	_, err = executeCommand(t, "answer", "ut:lecture0", "2", "--store", path)
	require.NoError(t, err)

	out, err := executeCommand(t, "summary", "ut:lecture0", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Answered 1 questions, 1 correctly.")
	assert.Contains(t, out, "more questions to see your grade")
}

func TestSummary_UnknownLecture(t *testing.T) {
	path := seedReplica(t)

	_, err := executeCommand(t, "summary", "ut:lectureX", "--store", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestLectures_ListsSeededLecture(t *testing.T) {
	path := seedReplica(t)

	out, err := executeCommand(t, "lectures", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Unit test lecture")
	assert.Contains(t, out, "[offline]")
}

func TestLectures_JSONOutput(t *testing.T) {
	path := seedReplica(t)

	out, err := executeCommand(t, "lectures", "--store", path, "--format", "json")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestGC_RemovesOrphans(t *testing.T) {
	path := seedReplica(t)
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SetJSON(st, "ut:orphan", &lecture.Question{URI: "ut:orphan"}))
	require.NoError(t, st.Close())

	out, err := executeCommand(t, "gc", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "removed ut:orphan")

	out, err = executeCommand(t, "gc", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to remove.")
}

// testServer serves one subscribed lecture the way the real server
// would: a subscription tree, the lecture itself, and its material.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/subscriptions/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&lecture.SubscriptionNode{
			Title:    "Root",
			Children: []*lecture.SubscriptionNode{{Title: "Lecture 0", Href: "/lec0"}},
		})
	})
	mux.HandleFunc("/lec0", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&lecture.Lecture{
			URI:   "/lec0",
			Path:  "lec0",
			Title: "Lecture 0",
			User:  "alice",
			Questions: []*lecture.QuestionTally{
				{URI: "/qn0", Chosen: 1, Correct: 1},
			},
			AnswerQueue: []*lecture.AnswerRecord{},
		})
	})
	mux.HandleFunc("/api/stage/material", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&api.QuestionBundle{
			Stats: []*lecture.QuestionTally{{URI: "/qn0", Chosen: 1, Correct: 1}},
			Data: map[string]*lecture.Question{
				"/qn0": {URI: "/qn0", Content: "<p>q</p>"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSync_DownloadsSubscriptions(t *testing.T) {
	srv := testServer(t)
	path := tempStorePath(t)

	out, err := executeCommand(t, "sync", "--store", path, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Done")

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	var lec lecture.Lecture
	ok, err := store.GetJSON(st, "/lec0", &lec)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Lecture 0", lec.Title)

	_, ok, err = st.Get("/qn0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSync_SingleLecture(t *testing.T) {
	srv := testServer(t)
	path := tempStorePath(t)

	// Subscriptions first so the lecture survives cleanup.
	_, err := executeCommand(t, "sync", "--store", path, "--server", srv.URL)
	require.NoError(t, err)

	out, err := executeCommand(t, "sync", "/lec0", "--force", "--store", path, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Fetching lecture...")
	assert.Contains(t, out, "Done")
}

func TestSync_ServerDown(t *testing.T) {
	path := tempStorePath(t)

	_, err := executeCommand(t, "sync", "--store", path, "--server", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
