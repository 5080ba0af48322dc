package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	list, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "0001", list[0].Version)
	assert.Equal(t, "init", list[0].Name)
	assert.Contains(t, list[0].SQL, "CREATE TABLE IF NOT EXISTS payments")
}

func TestLoadSortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_second.sql": {Data: []byte("SELECT 2;")},
		"sql/0001_first.sql":  {Data: []byte("SELECT 1;")},
		"sql/README.md":       {Data: []byte("ignored")},
	}
	list, err := load(fsys)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
}

func TestLoadRejectsBadName(t *testing.T) {
	fsys := fstest.MapFS{"sql/nounderscore.sql": {Data: []byte("SELECT 1;")}}
	_, err := load(fsys)
	assert.Error(t, err)
}
