package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/constable/internal/codec"
	"github.com/roach88/constable/internal/cval"
)

// EvalResult holds the canonical form of an evaluated document.
type EvalResult struct {
	Canonical json.RawMessage `json:"canonical"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <document>",
		Short: "Build a document as a canonical value and print its encoding",
		Long: `Eval parses a JSON or YAML document, constructs it as a canonical
immutable value, and prints its canonical encoding. Structurally identical
documents always produce byte-identical output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runEval(opts *RootOptions, docPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	r := cval.NewRealm()
	formatter.VerboseLog("Realm %s: loading %s", r.ID, docPath)

	root, err := LoadDocument(r, docPath)
	if err != nil {
		return commandError(formatter, ExitCommandError, documentErrorCode(err), err.Error())
	}

	encoded, err := codec.Encode(root)
	if err != nil {
		return commandError(formatter, ExitFailure, ErrCodeEncodeFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(EvalResult{Canonical: json.RawMessage(encoded)})
	}
	fmt.Fprintln(formatter.Writer, string(encoded))
	return nil
}

// documentErrorCode distinguishes file access problems from decode and
// construction failures inside an otherwise readable document.
func documentErrorCode(err error) string {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return ErrCodeReadFailed
	}
	return ErrCodeDecodeFailed
}
