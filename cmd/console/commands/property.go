package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/cmd/console/output"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/console"
)

var (
	fields     []string
	amenityIDs []int64
	keepAmen   bool
	newVenues  []string
)

var propertyCmd = &cobra.Command{
	Use:   "property <resort|ship> [id]",
	Short: "Create or edit a resort or ship",
	Long: `Create or edit a resort or ship with its amenities and venues.

Without an id a new property is created and every --venue is staged and
posted after the property is saved. With an id the property is updated and
--venue entries are added to it directly.

  tripguides property ship --field name="Brilliant Lady" --field capacity=2770 \
      --amenity 3 --amenity 7 --venue "The Manor:2"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		if kind != "resort" && kind != "ship" {
			return fmt.Errorf("kind must be resort or ship, got %q", kind)
		}
		var id int64
		if len(args) == 2 {
			n, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || n <= 0 {
				return fmt.Errorf("bad id %q", args[1])
			}
			id = n
		}
		values, err := parseFields(fields)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		c, err := client(ctx, true)
		if err != nil {
			return err
		}

		form := console.NewPropertyForm(c, kind, id)
		if err := form.Open(ctx); err != nil {
			return err
		}
		if !keepAmen || id == 0 {
			form.AmenityIDs = amenityIDs
		} else {
			form.AmenityIDs = append(form.AmenityIDs, amenityIDs...)
		}
		venues := form.VenueManager()
		for _, raw := range newVenues {
			v, err := parseVenue(raw)
			if err != nil {
				return err
			}
			if venues.PendingMode {
				_, err = venues.Add(ctx, v)
				if err != nil {
					return err
				}
			}
		}

		res, err := form.Submit(ctx, values)
		if err != nil {
			return err
		}
		if !venues.PendingMode {
			for _, raw := range newVenues {
				v, _ := parseVenue(raw)
				if _, err := venues.Add(ctx, v); err != nil {
					res.VenueErrors = append(res.VenueErrors, fmt.Errorf("venue %q: %w", v.Name, err))
				}
			}
		}

		verb := "Updated"
		if res.Created {
			verb = "Created"
		}
		output.Success("%s %s %d", verb, kind, res.ID)
		for _, e := range res.VenueErrors {
			output.Warning("%v", e)
		}
		return nil
	},
}

func parseFields(in []string) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for _, f := range in {
		k, v, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("bad --field %q, want key=value", f)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

// parseVenue reads "name:venueTypeId".
func parseVenue(s string) (console.Venue, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return console.Venue{}, fmt.Errorf("bad --venue %q, want name:typeId", s)
	}
	typeID, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return console.Venue{}, fmt.Errorf("bad --venue %q: %w", s, err)
	}
	return console.Venue{Name: strings.TrimSpace(s[:i]), VenueTypeID: typeID}, nil
}

func init() {
	propertyCmd.Flags().StringArrayVar(&fields, "field", nil, "Property field as key=value (blank clears)")
	propertyCmd.Flags().Int64SliceVar(&amenityIDs, "amenity", nil, "Amenity id (repeatable); replaces the set")
	propertyCmd.Flags().BoolVar(&keepAmen, "keep-amenities", false, "Add --amenity ids to the current set instead of replacing it")
	propertyCmd.Flags().StringArrayVar(&newVenues, "venue", nil, "Venue as name:typeId (repeatable)")
	rootCmd.AddCommand(propertyCmd)
}
