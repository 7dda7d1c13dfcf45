package livecss

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	assert.Equal(t, "", s.CSS())
	assert.Equal(t, uint64(0), s.Revision())

	require.NoError(t, s.Replace(".a { color: red; }"))
	assert.Equal(t, ".a { color: red; }", s.CSS())
	assert.Equal(t, uint64(1), s.Revision())
	firstTag := s.ETag()

	// Identical content does not advance the revision
	require.NoError(t, s.Replace(".a { color: red; }"))
	assert.Equal(t, uint64(1), s.Revision())
	assert.Equal(t, firstTag, s.ETag())

	require.NoError(t, s.Replace(".b { color: blue; }"))
	assert.Equal(t, uint64(2), s.Revision())
	assert.NotEqual(t, firstTag, s.ETag())
}

func TestMemorySinkETagFormat(t *testing.T) {
	s := NewMemorySink()
	require.NoError(t, s.Replace("body {}"))

	tag := s.ETag()
	assert.Len(t, tag, 18, "sixteen hex digits plus surrounding quotes")
	assert.Equal(t, byte('"'), tag[0])
	assert.Equal(t, byte('"'), tag[len(tag)-1])
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets", "livecss.css")
	s := &FileSink{Path: path}

	require.NoError(t, s.Replace(".a { color: red; }"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".a { color: red; }", string(content))

	// Replacement overwrites wholesale
	require.NoError(t, s.Replace(".b {}"))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".b {}", string(content))

	// No stray temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
