package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snap.db")
	doc := writeTempFile(t, "doc.json", `{"name": "cart", "items": [1, 2]}`)

	out, err := executeCommand(t, "save", "--db", db, doc)
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	require.Len(t, hash, 64)

	out, err = executeCommand(t, "load", "--db", db, hash)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"cart","items":[1,2]}`, strings.TrimSpace(out))
}

func TestSaveIsIdempotent(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snap.db")
	doc := writeTempFile(t, "doc.json", `[1, 2, 3]`)

	out1, err := executeCommand(t, "save", "--db", db, doc)
	require.NoError(t, err)
	out2, err := executeCommand(t, "save", "--db", db, doc)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestSaveWithNamedRoot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snap.db")
	doc := writeTempFile(t, "doc.json", `{"v": 1}`)

	_, err := executeCommand(t, "save", "--db", db, "--root", "main", doc)
	require.NoError(t, err)

	out, err := executeCommand(t, "load", "--db", db, "--root", "main")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, strings.TrimSpace(out))
}

func TestLoadUnknownHash(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snap.db")
	doc := writeTempFile(t, "doc.json", `{}`)

	// Create the database so only the hash is missing.
	_, err := executeCommand(t, "save", "--db", db, doc)
	require.NoError(t, err)

	out, err := executeCommand(t, "load", "--db", db, strings.Repeat("0", 64))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestLoadRequiresHashOrRoot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snap.db")

	_, err := executeCommand(t, "load", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
