package commands

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/cmd/console/output"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/console"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/console/tui"
)

var lookups = map[string]string{
	"amenities":        console.AmenitiesPath,
	"venue-types":      console.VenueTypesPath,
	"resorts":          console.ResortsPath,
	"resort-companies": console.ResortCompaniesPath,
	"cruise-lines":     console.CruiseLinesPath,
}

var (
	pickSingle bool
	pickCreate bool
)

var pickCmd = &cobra.Command{
	Use:   "pick <amenities|venue-types|resorts|resort-companies|cruise-lines>",
	Short: "Pick lookup entries interactively and print their ids",
	Long: `Open an interactive picker over a lookup table.

Type / to filter, space to toggle, enter to confirm. With --create, ctrl+n
creates the filter text as a new entry (editor role required).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, ok := lookups[args[0]]
		if !ok {
			return fmt.Errorf("unknown lookup %q", args[0])
		}
		c, err := client(cmd.Context(), pickCreate)
		if err != nil {
			return err
		}
		s := console.NewOptionSelector(c, path, !pickSingle, pickCreate)
		final, err := tea.NewProgram(tui.NewSelectorModel(cmd.Context(), args[0], s), tea.WithAltScreen()).Run()
		if err != nil {
			return err
		}
		m := final.(tui.SelectorModel[console.Option])
		if !m.Confirmed {
			output.Warning("Cancelled")
			return nil
		}
		ids := make([]string, 0, len(s.Selected()))
		for _, id := range s.Selected() {
			ids = append(ids, fmt.Sprint(id))
		}
		fmt.Println(strings.Join(ids, ","))
		return nil
	},
}

func init() {
	pickCmd.Flags().BoolVar(&pickSingle, "single", false, "Pick exactly one entry")
	pickCmd.Flags().BoolVar(&pickCreate, "create", false, "Allow creating entries with ctrl+n")
	rootCmd.AddCommand(pickCmd)
}
