package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/constable/internal/codec"
	"github.com/roach88/constable/internal/cval"
	"github.com/roach88/constable/internal/update"
)

// ApplyResult holds the outcome of applying an update script.
type ApplyResult struct {
	Canonical json.RawMessage `json:"canonical"`
	Parts     int             `json:"parts"`
	Changed   bool            `json:"changed"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <document> <script>",
		Short: "Apply an update script to a document",
		Long: `Apply builds the document as a canonical value, runs the YAML update
script against it part by part, and prints the canonical encoding of the
result. A script whose parts all leave the value unchanged reports
changed=false, because the result is the identical instance.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runApply(opts *RootOptions, docPath, scriptPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	r := cval.NewRealm()
	root, err := LoadDocument(r, docPath)
	if err != nil {
		return commandError(formatter, ExitCommandError, documentErrorCode(err), err.Error())
	}

	parts, err := LoadScript(r, scriptPath)
	if err != nil {
		return commandError(formatter, ExitCommandError, scriptErrorCode(err), err.Error())
	}
	formatter.VerboseLog("Applying %d part(s) from %s", len(parts), scriptPath)

	result, err := update.New(r).Apply(root, parts)
	if err != nil {
		return commandError(formatter, ExitFailure, updateErrorCode(err), err.Error())
	}

	encoded, err := codec.Encode(result)
	if err != nil {
		return commandError(formatter, ExitFailure, ErrCodeEncodeFailed, err.Error())
	}

	changed := !cval.StrictEquals(root, result)
	if formatter.Format == "json" {
		return formatter.Success(ApplyResult{
			Canonical: json.RawMessage(encoded),
			Parts:     len(parts),
			Changed:   changed,
		})
	}
	fmt.Fprintln(formatter.Writer, string(encoded))
	if !changed {
		formatter.VerboseLog("No part changed the document; result is the same instance")
	}
	return nil
}

func scriptErrorCode(err error) string {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return ErrCodeReadFailed
	}
	return ErrCodeScriptError
}

func updateErrorCode(err error) string {
	if cval.IsPathTypeError(err) || cval.IsUpdateTypeError(err) {
		return ErrCodeUpdateFailed
	}
	return ErrCodeGeneric
}
