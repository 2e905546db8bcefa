package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the CLI with args and returns stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestEvalPreservesMemberOrder(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"b": 1, "a": 2}`)

	out, err := executeCommand(t, "eval", doc)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":2}`, strings.TrimSpace(out))
}

func TestEvalYAMLDocument(t *testing.T) {
	doc := writeTempFile(t, "doc.yaml", "name: cart\nitems:\n  - id: 1\n  - id: 2\n")

	out, err := executeCommand(t, "eval", doc)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"cart","items":[{"id":1},{"id":2}]}`, strings.TrimSpace(out))
}

func TestEvalJSONFormat(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `[1, 2, 3]`)

	out, err := executeCommand(t, "--format", "json", "eval", doc)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"canonical":[1,2,3]}`, string(data))
}

func TestEvalMissingDocument(t *testing.T) {
	out, err := executeCommand(t, "eval", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeReadFailed)
}

func TestEvalMalformedDocument(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"a":`)

	out, err := executeCommand(t, "eval", doc)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeDecodeFailed)
}

func TestEvalUnsupportedExtension(t *testing.T) {
	doc := writeTempFile(t, "doc.toml", `a = 1`)

	_, err := executeCommand(t, "eval", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document extension")
}
