package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/WessleyAI/vehicle-lookup/cmd/lookup/tui"
	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
)

func tuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the lookup wizard in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout belongs to the terminal UI; logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if a.cfg.LogFile != "" {
				f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			logger := newLogger(logOut, a.cfg.LogLevel)

			client, _, err := a.newVPICClient(nil, nil)
			if err != nil {
				return err
			}
			err = tui.Run(cmd.Context(), wizard.NewLoader(client, logger, nil))
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
}
