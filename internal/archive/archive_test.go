package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/village-blogger/internal/types"
)

var posts = []types.Post{{Text: "Ремонт моста"}, {Text: "Ярмарка\nв субботу"}}

func TestWrite_OnWednesday(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	w := NewWriter(dir)
	wednesday := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	path, err := w.Write(wednesday, posts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "week_2024-05-15.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Список новостей за неделю в Граховском районе и не только. Выпуск за 2024-05-15\nРемонт моста\nЯрмарка в субботу",
		string(data))
}

func TestWrite_NotDue(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	for day := 13; day <= 19; day++ {
		now := time.Date(2024, 5, day, 12, 0, 0, 0, time.UTC)
		if now.Weekday() == time.Wednesday {
			continue
		}
		path, err := w.Write(now, posts)
		require.NoError(t, err)
		assert.Empty(t, path, now.Weekday().String())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWrite_Overwrites(t *testing.T) {
	w := NewWriter(t.TempDir())
	wednesday := time.Date(2024, 5, 15, 6, 0, 0, 0, time.UTC)

	_, err := w.Write(wednesday, posts)
	require.NoError(t, err)
	path, err := w.Write(wednesday.Add(12*time.Hour), posts[:1])
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Ярмарка")
}

func TestWrite_DirectoryError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	w := NewWriter(filepath.Join(file, "sub"))
	_, err := w.Write(time.Date(2024, 5, 15, 6, 0, 0, 0, time.UTC), posts)
	assert.Error(t, err)
}
