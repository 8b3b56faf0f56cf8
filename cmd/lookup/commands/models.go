package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/engine/vpic"
	"github.com/WessleyAI/vehicle-lookup/pkg/fn"
	"github.com/WessleyAI/vehicle-lookup/pkg/vehiclenlp"
)

func modelsCmd(a *app) *cobra.Command {
	var (
		makeArg string
		year    string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "models [query]",
		Short: "List the models of a make for one model year",
		Example: "  lookup models --make 448 --year 2020\n" +
			"  lookup models --make toyota --year 2020\n" +
			"  lookup models \"2019 chevy\"",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q := vehiclenlp.ParseQuery(args[0])
				if !cmd.Flags().Changed("make") {
					makeArg = q.Make
				}
				if !cmd.Flags().Changed("year") {
					year = q.Year
				}
			}
			if strings.TrimSpace(makeArg) == "" {
				return domain.NewValidationError("make", makeArg, domain.ErrMissingParam)
			}
			if year == "" {
				return domain.NewValidationError("year", year, domain.ErrMissingParam)
			}

			years := domain.Years(a.now())
			if !slices.Contains(years, year) {
				if len(years) == 0 {
					return domain.NewValidationError("year", year, domain.ErrInvalidYear)
				}
				return domain.NewValidationError("year", year,
					fmt.Errorf("%w: offered years are %s to %s", domain.ErrInvalidYear, years[len(years)-1], years[0]))
			}

			client, _, err := a.newVPICClient(nil, nil)
			if err != nil {
				return err
			}
			ctx, cancel := a.commandContext(cmd.Context())
			defer cancel()

			makeID := strings.TrimSpace(makeArg)
			if _, err := strconv.Atoi(makeID); err != nil {
				makes, err := client.Makes(ctx, vpic.VehicleTypeCar)
				if err != nil {
					return fmt.Errorf("could not load makes: %w", err)
				}
				query := makeArg
				if name := vehiclenlp.Canonical(makeArg); name != "" {
					query = name
				}
				m, err := domain.ResolveMake(makes, query)
				if err != nil {
					return err
				}
				makeID = m.Key()
			}

			id, y, err := domain.ParseSelection(domain.Selection{MakeID: makeID, Year: year})
			if err != nil {
				return err
			}
			models, err := client.Models(ctx, id, y)
			if err != nil {
				return fmt.Errorf("could not load models: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, models)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vehicle Models in %d\n", y)
			if len(models) == 0 {
				fmt.Fprintln(out, "No models found for this make and year.")
				return nil
			}
			rows := fn.Map(models, func(m domain.Model) []string { return []string{m.Name, m.MakeName, strconv.Itoa(m.ID)} })
			fmt.Fprintln(out, renderTable([]string{"MODEL", "MAKE", "ID"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&makeArg, "make", "", "make id or name")
	cmd.Flags().StringVar(&year, "year", "", "model year")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
