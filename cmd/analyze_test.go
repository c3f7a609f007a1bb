package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/tag-communities/internal/analysis"
	"github.com/hurou927/tag-communities/internal/config"
	"github.com/hurou927/tag-communities/internal/graph"
	"github.com/hurou927/tag-communities/internal/store"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	data := "Nome,Interesses\nA,\"sports, music\"\nB,\"music, art\"\nC,cooking\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestAnalyzeCommand_Text(t *testing.T) {
	t.Setenv("COMMUNITIES_STORE", "memory")

	out, err := runRoot(t, "analyze", writeCSV(t), "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Communities: 2")
	assert.Contains(t, out, "Members: A, B")
	assert.Contains(t, out, "isolated person: C")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	t.Setenv("COMMUNITIES_STORE", "memory")

	out, err := runRoot(t, "analyze", writeCSV(t), "--format", "json")
	require.NoError(t, err)

	var res analysis.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.TotalCommunities)
}

func TestAnalyzeCommand_EmptyMemoryStore(t *testing.T) {
	t.Setenv("COMMUNITIES_STORE", "memory")

	_, err := runRoot(t, "analyze", "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data loaded")
}

func TestLoadThenAnalyze_SQLite(t *testing.T) {
	t.Setenv("COMMUNITIES_STORE", "sqlite")
	t.Setenv("COMMUNITIES_SQLITE_PATH", filepath.Join(t.TempDir(), "people.db"))

	_, err := runRoot(t, "load", writeCSV(t))
	require.NoError(t, err)

	out, err := runRoot(t, "analyze", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "subgraph community_1")
	assert.Contains(t, out, "p1 --- p2")
}

func TestStoredInterests_ReadsSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "people.db")
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = &config.Config{Store: config.Store{Driver: config.DriverSQLite, SQLitePath: path}}

	_, err := storedInterests(ctx)
	assert.ErrorIs(t, err, store.ErrNoData)

	st, err := store.Open(ctx, cfg)
	require.NoError(t, err)
	want := graph.Interests{"A": {"sports", "music"}, "B": {"music", "music"}}
	require.NoError(t, st.Replace(ctx, want))
	require.NoError(t, st.Close())

	got, err := storedInterests(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteReport_UnknownFormat(t *testing.T) {
	err := writeReport(&bytes.Buffer{}, "yaml", graph.Interests{})
	assert.ErrorContains(t, err, "unknown format")
}
