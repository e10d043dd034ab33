package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotYAML = `
contest_id: 1
name: Weekly 12
problems:
  - id: 1
    name: Sum
  - id: 2
    name: Maze
participants:
  - id: u1
    show_name: alice
    submissions:
      - problem_id: 1
        score: 50
        time_used: 100
  - id: u2
    show_name: bob
    submissions:
      - problem_id: 1
        score: 20
        time_used: 10
      - problem_id: 2
        score: 30
        time_used: 10
  - id: u3
    show_name: carol
    submissions:
      - problem_id: 2
        score: 30.5
        time_used: 5
`

func runRank(t *testing.T, args ...string) []string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"rank", path}, args...))
	require.NoError(t, cmd.Execute())

	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestRankCommand(t *testing.T) {
	lines := runRank(t)

	require.Len(t, lines, 6)
	assert.Equal(t, "Weekly 12", lines[0])
	assert.Equal(t, []string{"RANK", "NAME", "TOTAL", "TIME"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"1", "alice", "50", "100"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"1", "bob", "50", "20"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"3", "carol", "30.5", "5"}, strings.Fields(lines[5]))
}

func TestRankCommandDetail(t *testing.T) {
	lines := runRank(t, "--detail")

	require.Len(t, lines, 6)
	assert.Equal(t, []string{"RANK", "NAME", "Sum", "Maze", "TOTAL", "TIME"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"1", "bob", "20", "30", "50", "20"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"3", "carol", "0", "30.5", "30.5", "5"}, strings.Fields(lines[5]))
}

func TestRankCommandErrors(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"rank"})
	assert.Error(t, cmd.Execute())

	cmd.SetArgs([]string{"rank", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.Execute())
}
