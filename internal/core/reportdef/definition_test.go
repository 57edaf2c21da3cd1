package reportdef

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aevon-lab/toppick/internal/core/storage"
	"github.com/aevon-lab/toppick/internal/core/toppick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeReport writes a single report YAML file into dir.
func writeReport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileSystemRepository_LoadAndList(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "top_track.yaml", `
name: "top_track_per_country"
group_by: "customer_country"
item: "track"
`)
	writeReport(t, dir, "top_album_revenue.yml", `
name: "top_album_by_revenue"
group_by: "billing_country"
item: "album"
operator: "sum"
weight: "revenue"
limit: 10
`)
	writeReport(t, dir, "README.md", "not a report")

	repo, err := NewFileSystemRepository(dir)
	require.NoError(t, err)
	require.Equal(t, 2, repo.Len())

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "top_album_by_revenue", all[0].Name)
	assert.Equal(t, "top_track_per_country", all[1].Name)
	assert.Equal(t, 10, all[0].Limit)
}

func TestFileSystemRepository_Get(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "genre.yaml", `
name: "top_genre_per_city"
group_by: "billing_city"
item: "genre"
`)

	repo, err := NewFileSystemRepository(dir)
	require.NoError(t, err)

	def, err := repo.Get(context.Background(), "top_genre_per_city")
	require.NoError(t, err)
	assert.Equal(t, "billing_city", def.GroupBy)
	assert.Equal(t, "genre", def.Item)
	assert.Equal(t, toppick.OpCount, def.Operator)
	assert.Equal(t, toppick.OrderInteger, def.KeyOrder)
	assert.Len(t, def.Fingerprint, 64)
	assert.Equal(t, storage.EventQuery{GroupBy: "billing_city", Item: "genre"}, def.EventQuery())

	_, err = repo.Get(context.Background(), "nonexistent")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileSystemRepository_FingerprintChanges(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "fp.yaml", "name: \"fp\"\nitem: \"track\"\n")

	repo1, err := NewFileSystemRepository(dir)
	require.NoError(t, err)
	d1, err := repo1.Get(context.Background(), "fp")
	require.NoError(t, err)

	writeReport(t, dir, "fp.yaml", "name: \"fp\"\nitem: \"album\"\n")

	repo2, err := NewFileSystemRepository(dir)
	require.NoError(t, err)
	d2, err := repo2.Get(context.Background(), "fp")
	require.NoError(t, err)

	assert.NotEqual(t, d1.Fingerprint, d2.Fingerprint)
}

func TestFileSystemRepository_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown operator",
			content: "name: bad\noperator: median\n",
			wantErr: "unknown ranking operator",
		},
		{
			name:    "unknown key order",
			content: "name: bad\nkey_order: random\n",
			wantErr: "not a total order",
		},
		{
			name:    "unknown group dimension",
			content: "name: bad\ngroup_by: continent\n",
			wantErr: "unknown dimension",
		},
		{
			name:    "unknown item dimension",
			content: "name: bad\nitem: playlist\n",
			wantErr: "unknown dimension",
		},
		{
			name:    "sum without weight",
			content: "name: bad\noperator: sum\n",
			wantErr: "requires a weight",
		},
		{
			name:    "count with weight",
			content: "name: bad\nweight: quantity\n",
			wantErr: "only used by operator sum",
		},
		{
			name:    "negative limit",
			content: "name: bad\nlimit: -1\n",
			wantErr: "limit must be >= 0",
		},
		{
			name:    "malformed yaml",
			content: "name: [unterminated\n",
			wantErr: "parsing report file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeReport(t, dir, "bad.yaml", tc.content)

			_, err := NewFileSystemRepository(dir)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestFileSystemRepository_MissingDir(t *testing.T) {
	repo, err := NewFileSystemRepository(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Equal(t, 0, repo.Len())
}

func TestFileSystemRepository_PathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))

	_, err := NewFileSystemRepository(path)
	require.ErrorContains(t, err, "is not a directory")
}

func TestFileSystemRepository_SkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "empty.yaml", "# nothing configured yet\n")
	writeReport(t, dir, "real.yaml", "name: real\n")

	repo, err := NewFileSystemRepository(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestFileSystemRepository_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "a.yaml", "name: dup\n")
	writeReport(t, dir, "b.yaml", "name: dup\nitem: album\n")

	_, err := NewFileSystemRepository(dir)
	require.ErrorContains(t, err, "duplicate report name")
}

func TestMemoryRepository_EnsureDefault(t *testing.T) {
	repo, err := NewMemoryRepository()
	require.NoError(t, err)

	repo.EnsureDefault()
	def, err := repo.Get(context.Background(), DefaultName)
	require.NoError(t, err)
	assert.Equal(t, "customer_country", def.GroupBy)
	assert.Equal(t, "track", def.Item)
	assert.NotEmpty(t, def.Fingerprint)

	custom, err := NewMemoryRepository(Definition{Name: "custom", Item: "artist"})
	require.NoError(t, err)
	custom.EnsureDefault()
	assert.Equal(t, 1, custom.Len())
}

func TestDefinition_Pushdownable(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want bool
	}{
		{name: "count with integer order", def: DefaultDefinition(), want: true},
		{name: "sum operator", def: Definition{Operator: toppick.OpSum, KeyOrder: toppick.OrderInteger, Item: "track"}, want: false},
		{name: "lexical order", def: Definition{Operator: toppick.OpCount, KeyOrder: toppick.OrderLexical, Item: "track"}, want: false},
		{name: "unknown item", def: Definition{Operator: toppick.OpCount, KeyOrder: toppick.OrderInteger, Item: "playlist"}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.def.Pushdownable())
		})
	}
}
