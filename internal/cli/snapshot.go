package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/constable/internal/codec"
	"github.com/roach88/constable/internal/cval"
	"github.com/roach88/constable/internal/snapshot"
)

// SnapshotOptions holds flags shared by the save and load commands.
type SnapshotOptions struct {
	*RootOptions
	DB   string // snapshot database path
	Root string // optional named root
}

// SaveResult holds the outcome of saving a document.
type SaveResult struct {
	Hash string `json:"hash"`
	Root string `json:"root,omitempty"`
}

// LoadResult holds a value loaded from the snapshot store.
type LoadResult struct {
	Hash      string          `json:"hash"`
	Canonical json.RawMessage `json:"canonical"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <document>",
		Short: "Save a document to a content-addressed snapshot store",
		Long: `Save builds the document as a canonical value and persists it to the
snapshot database as a content-addressed node tree. Saving the same value
twice stores nothing new and reports the same hash. With --root the hash
is also pinned under a name for later retrieval.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "constable.db", "snapshot database path")
	cmd.Flags().StringVar(&opts.Root, "root", "", "pin the saved hash under a root name")

	return cmd
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <hash>",
		Short: "Load a value from a snapshot store and print its encoding",
		Long: `Load reconstructs the value stored under a node hash (or, with --root,
under a root name) and prints its canonical encoding.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := ""
			if len(args) == 1 {
				hash = args[0]
			}
			return runLoad(opts, hash, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "constable.db", "snapshot database path")
	cmd.Flags().StringVar(&opts.Root, "root", "", "load the hash pinned under a root name")

	return cmd
}

func runSave(opts *SnapshotOptions, docPath string, cmd *cobra.Command) error {
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

	store, err := snapshot.Open(opts.DB)
	if err != nil {
		return commandError(formatter, ExitCommandError, ErrCodeStoreFailed, err.Error())
	}
	defer store.Close()

	ctx := cmd.Context()
	hash, err := store.Save(ctx, root)
	if err != nil {
		return commandError(formatter, ExitFailure, ErrCodeStoreFailed, err.Error())
	}
	formatter.VerboseLog("Saved %s as %s", docPath, hash)

	if opts.Root != "" {
		if err := store.SetRoot(ctx, opts.Root, hash); err != nil {
			return commandError(formatter, ExitCommandError, ErrCodeStoreFailed, err.Error())
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(SaveResult{Hash: hash, Root: opts.Root})
	}
	fmt.Fprintln(formatter.Writer, hash)
	return nil
}

func runLoad(opts *SnapshotOptions, hash string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if hash == "" && opts.Root == "" {
		return commandError(formatter, ExitCommandError, ErrCodeGeneric, "a hash argument or --root is required")
	}

	store, err := snapshot.Open(opts.DB)
	if err != nil {
		return commandError(formatter, ExitCommandError, ErrCodeStoreFailed, err.Error())
	}
	defer store.Close()

	ctx := cmd.Context()
	r := cval.NewRealm()

	if opts.Root != "" {
		hash, err = store.Root(ctx, opts.Root)
		if err != nil {
			return commandError(formatter, ExitCommandError, ErrCodeNotFound, err.Error())
		}
	}

	v, err := store.Load(ctx, r, hash)
	if err != nil {
		code := ErrCodeStoreFailed
		if strings.Contains(err.Error(), "not found") {
			code = ErrCodeNotFound
		}
		return commandError(formatter, ExitCommandError, code, err.Error())
	}

	encoded, err := codec.Encode(v)
	if err != nil {
		return commandError(formatter, ExitFailure, ErrCodeEncodeFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(LoadResult{Hash: hash, Canonical: json.RawMessage(encoded)})
	}
	fmt.Fprintln(formatter.Writer, string(encoded))
	return nil
}
