package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyScript(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"items": [1, 2], "count": 2}`)
	script := writeTempFile(t, "update.yaml", `
parts:
  - call: .items
    method: push
    args: [3]
  - set: .count
    value: 3
`)

	out, err := executeCommand(t, "apply", doc, script)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[1,2,3],"count":3}`, strings.TrimSpace(out))
}

func TestApplyNoOpReportsUnchanged(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"count": 2}`)
	script := writeTempFile(t, "update.yaml", `
parts:
  - set: .count
    value: 2
`)

	out, err := executeCommand(t, "--format", "json", "apply", doc, script)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"canonical":{"count":2},"parts":1,"changed":false}`, string(data))
}

func TestApplyInvalidScript(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{}`)
	script := writeTempFile(t, "update.yaml", `
parts:
  - set: .a
    value: 1
    bogus: true
`)

	out, err := executeCommand(t, "apply", doc, script)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeScriptError)
}

func TestApplyPathErrorFailsBatch(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"items": [1]}`)
	script := writeTempFile(t, "update.yaml", `
parts:
  - call: .missing
    method: push
    args: [1]
`)

	out, err := executeCommand(t, "apply", doc, script)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeUpdateFailed)
}
