package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/engine/vpic"
	"github.com/WessleyAI/vehicle-lookup/pkg/fn"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func makesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "makes",
		Short: "List the car makes vPIC knows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.newVPICClient(nil, nil)
			if err != nil {
				return err
			}
			ctx, cancel := a.commandContext(cmd.Context())
			defer cancel()

			makes, err := client.Makes(ctx, vpic.VehicleTypeCar)
			if err != nil {
				return fmt.Errorf("could not load makes: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, makes)
			}
			rows := fn.Map(makes, func(m domain.Make) []string { return []string{strconv.Itoa(m.ID), m.Name} })
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "MAKE"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		String()
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

