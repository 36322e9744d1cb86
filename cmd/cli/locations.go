package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/atlanticproxy/atlantic/internal/search"
	"github.com/spf13/cobra"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Browse proxy locations",
	Args:  cobra.NoArgs,
	RunE:  runListLocations,
}

var locationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every location, favorites first",
	Args:  cobra.NoArgs,
	RunE:  runListLocations,
}

var locationsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search locations by country, code or city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		index, err := loadLocationIndex(ctx)
		if err != nil {
			return err
		}
		defer index.Close()

		query := strings.Join(args, " ")
		results, err := index.Search(query)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println(infoStyle.Render(fmt.Sprintf("No locations match %q", query)))
			return nil
		}

		printLocations(results)
		return nil
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List favorite locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		favorites, err := session.Favorites()
		if err != nil {
			return err
		}

		if len(favorites) == 0 {
			fmt.Println(infoStyle.Render("No favorite locations yet. Add one with 'atlantic locations favorites add <code>'."))
			return nil
		}

		fmt.Println(headerStyle.Render("Favorite locations"))
		for _, code := range favorites {
			fmt.Println("  " + favoriteStyle.Render("*") + " " + code)
		}
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <code>",
	Short: "Add a location to favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := args[0]
		if !common.IsValidCountryCode(code) {
			return fmt.Errorf("invalid location code: %q", code)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		// Reject codes the backend does not serve when it can be reached.
		if index, err := loadLocationIndex(ctx); err == nil {
			_, known := index.Get(code)
			index.Close()
			if !known {
				return fmt.Errorf("unknown location: %s", strings.ToUpper(code))
			}
		}

		favorites, err := session.AddFavorite(code)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Saved. %d favorite locations.", len(favorites))))
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <code>",
	Short: "Remove a location from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := session.RemoveFavorite(args[0]); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Removed " + strings.ToUpper(args[0])))
		return nil
	},
}

func runListLocations(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	locations, err := apiClient.GetLocations(ctx)
	if err != nil {
		return err
	}

	printLocations(favoritesFirst(locations))
	return nil
}

func loadLocationIndex(ctx context.Context) (*search.LocationIndex, error) {
	locations, err := apiClient.GetLocations(ctx)
	if err != nil {
		return nil, err
	}
	return search.NewLocationIndex(locations)
}

// favoritesFirst keeps the backend order within each group.
func favoritesFirst(locations []models.Location) []models.Location {
	ordered := make([]models.Location, 0, len(locations))
	var rest []models.Location
	for _, location := range locations {
		if session.IsFavorite(location.CountryCode) {
			ordered = append(ordered, location)
		} else {
			rest = append(rest, location)
		}
	}
	return append(ordered, rest...)
}

func printLocations(locations []models.Location) {
	for _, location := range locations {
		marker := " "
		if session.IsFavorite(location.CountryCode) {
			marker = favoriteStyle.Render("*")
		}

		name := fmt.Sprintf("%s %-3s %s", marker, location.CountryCode, location.CountryName)
		if !location.Available {
			name = mutedStyle.Render(name + " (unavailable)")
		}
		fmt.Println(name)

		if len(location.Cities) > 0 {
			fmt.Println("      " + mutedStyle.Render(strings.Join(location.Cities, ", ")))
		}
	}
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)

	locationsCmd.AddCommand(locationsListCmd)
	locationsCmd.AddCommand(locationsSearchCmd)
	locationsCmd.AddCommand(favoritesCmd)

	rootCmd.AddCommand(locationsCmd)
}
