package conversation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mercafeira/assistant-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProfileReadsOnEveryCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	p := FileProfile{Path: path}

	_, ok := p.Profile()
	assert.False(t, ok, "missing file means anonymous")

	require.NoError(t, os.WriteFile(path, []byte(`{"id": 42, "nome": "Ana"}`), 0644))

	profile, ok := p.Profile()
	require.True(t, ok)
	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "Ana", profile.Name)

	// Logout elsewhere removes the file; the next send is anonymous again.
	require.NoError(t, os.Remove(path))
	_, ok = p.Profile()
	assert.False(t, ok)
}

func TestFileProfileRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, ok := FileProfile{Path: path}.Profile()
	assert.False(t, ok)
}

func TestStaticProfile(t *testing.T) {
	profile, ok := StaticProfile{User: models.UserProfile{ID: 7}}.Profile()
	assert.True(t, ok)
	assert.Equal(t, int64(7), profile.ID)
}
