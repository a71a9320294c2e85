package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validScenarioYAML = `name: sample
description: A sample scenario.
lecture:
  uri: "ut:lecture0"
  questions:
    - uri: "ut:qn0"
      chosen: 10
      correct: 5
      answer: ["a"]
flow:
  - question: "ut:qn0"
    answer: "a"
    expect:
      correct: true
assertions:
  - type: answered
    count: 1
`

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, validScenarioYAML)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", scenario.Name)
	assert.Equal(t, "ut:lecture0", scenario.Lecture.URI)
	require.Len(t, scenario.Flow, 1)
	require.NotNil(t, scenario.Flow[0].Expect)
	require.NotNil(t, scenario.Flow[0].Expect.Correct)
	assert.True(t, *scenario.Flow[0].Expect.Correct)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, `name: sample
description: A sample scenario.
lecture:
  uri: "ut:lecture0"
  questions:
    - uri: "ut:qn0"
      answer: ["a"]
flow:
  - question: "ut:qn0"
    answer: "a"
assertion:
  - type: answered
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenario(t, `description: A sample scenario.
lecture:
  uri: "ut:lecture0"
  questions:
    - uri: "ut:qn0"
      answer: ["a"]
flow:
  - question: "ut:qn0"
    answer: "a"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenario_EmptyFlow(t *testing.T) {
	path := writeScenario(t, `name: sample
description: A sample scenario.
lecture:
  uri: "ut:lecture0"
  questions:
    - uri: "ut:qn0"
      answer: ["a"]
flow: []
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow list is required")
}

func TestLoadScenario_FlowReferencesUnknownQuestion(t *testing.T) {
	path := writeScenario(t, `name: sample
description: A sample scenario.
lecture:
  uri: "ut:lecture0"
  questions:
    - uri: "ut:qn0"
      answer: ["a"]
flow:
  - question: "ut:qn9"
    answer: "a"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `question "ut:qn9" not in lecture.questions`)
}

func TestLoadScenario_UnknownAssertionType(t *testing.T) {
	path := writeScenario(t, `name: sample
description: A sample scenario.
lecture:
  uri: "ut:lecture0"
  questions:
    - uri: "ut:qn0"
      answer: ["a"]
flow:
  - question: "ut:qn0"
    answer: "a"
assertions:
  - type: trace_contains
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown assertion type "trace_contains"`)
}
