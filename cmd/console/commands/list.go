package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/cmd/console/output"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/console"
)

type listing struct {
	path    string
	sortKey string
	columns []console.Column
}

var listings = map[string]listing{
	"trips": {path: "/api/trips", sortKey: "status", columns: []console.Column{
		{Key: "name", Title: "Name", Width: 34, Resizable: true},
		{Key: "startDate", Title: "Starts", Width: 14, Resizable: true},
		{Key: "endDate", Title: "Ends", Width: 14, Resizable: true},
		{Key: "computedStatus", Title: "Status", Width: 12},
	}},
	"resorts": {path: "/api/resorts", sortKey: "name", columns: []console.Column{
		{Key: "id", Title: "ID", Width: 6},
		{Key: "name", Title: "Name", Width: 34, Resizable: true},
		{Key: "city", Title: "City", Width: 18, Resizable: true},
		{Key: "country", Title: "Country", Width: 18, Resizable: true},
		{Key: "capacity", Title: "Capacity", Width: 10},
	}},
	"ships": {path: "/api/ships", sortKey: "name", columns: []console.Column{
		{Key: "id", Title: "ID", Width: 6},
		{Key: "name", Title: "Name", Width: 34, Resizable: true},
		{Key: "shipCode", Title: "Code", Width: 10, Resizable: true},
		{Key: "capacity", Title: "Capacity", Width: 10},
		{Key: "decks", Title: "Decks", Width: 8},
	}},
	"amenities": {path: "/api/amenities", sortKey: "name", columns: []console.Column{
		{Key: "id", Title: "ID", Width: 6},
		{Key: "name", Title: "Name", Width: 30, Resizable: true},
		{Key: "description", Title: "Description", Width: 50, Resizable: true},
	}},
	"venues": {path: "/api/venues", sortKey: "name", columns: []console.Column{
		{Key: "id", Title: "ID", Width: 6},
		{Key: "name", Title: "Name", Width: 30, Resizable: true},
		{Key: "venueTypeId", Title: "Type", Width: 8},
		{Key: "shipId", Title: "Ship", Width: 8},
		{Key: "resortId", Title: "Resort", Width: 8},
	}},
	"talent": {path: "/api/talent", sortKey: "name", columns: []console.Column{
		{Key: "id", Title: "ID", Width: 6},
		{Key: "name", Title: "Name", Width: 30, Resizable: true},
		{Key: "talentCategory", Title: "Category", Width: 18, Resizable: true},
		{Key: "knownFor", Title: "Known for", Width: 36, Resizable: true},
	}},
}

var (
	sortKey  string
	sortDesc bool
	page     int
	pageSize int
	resize   []string
)

var listCmd = &cobra.Command{
	Use:       "list <" + strings.Join(listingNames(), "|") + ">",
	Short:     "List catalog records",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: listingNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		l := listings[args[0]]
		c, err := client(cmd.Context(), false)
		if err != nil {
			return err
		}
		rows, err := console.List[console.Row](cmd.Context(), c, l.path)
		if err != nil {
			return err
		}

		var store console.WidthStore = console.NewMemoryWidthStore()
		if fs, err := console.DefaultWidthStore(); err == nil {
			store = fs
		}
		t := console.NewTable(args[0], l.columns, rows, store)
		for _, r := range resize {
			col, delta, err := parseResize(r)
			if err != nil {
				return err
			}
			if err := t.Resize(col, delta); err != nil {
				return err
			}
		}
		key := sortKey
		if key == "" {
			key = l.sortKey
		}
		t.SortBy(key, sortDesc)
		shown := t.Page(page, pageSize)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(shown)
		}
		if len(shown) == 0 {
			output.Muted("No %s.", args[0])
			return nil
		}
		fmt.Println(t.Render(shown, width))
		output.Muted("page %d of %d, %d %s", page, t.Pages(pageSize), len(t.Rows), args[0])
		return nil
	},
}

func listingNames() []string {
	out := make([]string, 0, len(listings))
	for k := range listings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// parseResize reads "column=+4" or "column=-2".
func parseResize(s string) (string, int, error) {
	col, d, ok := strings.Cut(s, "=")
	var delta int
	if _, err := fmt.Sscanf(d, "%d", &delta); !ok || err != nil {
		return "", 0, fmt.Errorf("bad --resize %q, want column=+N or column=-N", s)
	}
	return col, delta, nil
}

func init() {
	listCmd.Flags().StringVar(&sortKey, "sort", "", "Sort column (trips default to status order)")
	listCmd.Flags().BoolVar(&sortDesc, "desc", false, "Sort descending")
	listCmd.Flags().IntVar(&page, "page", 1, "Page number")
	listCmd.Flags().IntVar(&pageSize, "page-size", 25, "Rows per page")
	listCmd.Flags().StringArrayVar(&resize, "resize", nil, "Resize a column, e.g. name=+4 (saved per list)")
	rootCmd.AddCommand(listCmd)
}
