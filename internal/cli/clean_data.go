package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// CleanDataOptions holds flags for the clean_data command
type CleanDataOptions struct {
	Yes bool // Skip the confirmation prompt
}

// NewCleanDataCmd creates the clean_data command
func NewCleanDataCmd(app *App) *cobra.Command {
	opts := CleanDataOptions{}

	cmd := &cobra.Command{
		Use:     "clean_data",
		Aliases: []string{"clean-data"},
		Short:   "Delete everything in the data directory",
		Long: `Clean_data removes every file and directory inside the data directory.
The directory itself and the container are kept.

On a terminal the command asks for confirmation. Pass --yes to skip the
prompt; without a terminal --yes is required.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CleanData(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Delete without asking for confirmation")

	return cmd
}

// CleanData empties the data directory
func (a *App) CleanData(cmd *cobra.Command, opts CleanDataOptions) error {
	dataDir := a.env.Config.DataDir

	if !opts.Yes {
		if !stdinIsTerminal(cmd.InOrStdin()) {
			return fmt.Errorf("%w: refusing to delete %s without --yes", pipeline.ErrInvalidArgument, dataDir)
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete everything in %s?", dataDir))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	removed, err := pipeline.CleanData(dataDir)
	if err != nil {
		return err
	}

	a.env.Logger.Debug("data directory cleaned", zap.String("dir", dataDir), zap.Int("removed", removed))
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries from %s\n", removed, dataDir)
	return nil
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question and defaults to no.
func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", question)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
