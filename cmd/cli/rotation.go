package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/spf13/cobra"
)

var rotationCmd = &cobra.Command{
	Use:   "rotation",
	Short: "Manage IP rotation",
}

var rotationConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the rotation configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		config, err := apiClient.GetRotationConfig(ctx)
		if err != nil {
			return err
		}

		printRotationConfig(config)
		return nil
	},
}

var rotationSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the rotation configuration",
	Long: `Update the rotation mode and target location.

The configuration can be given with flags or read from a YAML or JSON file:

  mode: sticky-10min
  country: US
  city: Chicago`,
	RunE: func(cmd *cobra.Command, args []string) error {

		config, err := rotationConfigFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := apiClient.SetRotationConfig(ctx, *config); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Rotation configuration saved"))
		printRotationConfig(config)
		return nil
	},
}

var rotationSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current sticky session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		current, err := apiClient.GetCurrentSession(ctx)
		if err != nil {
			return err
		}

		printSession(current)
		return nil
	},
}

var rotationRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Force a new egress IP now",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		current, err := apiClient.ForceRotation(ctx)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Rotated"))
		printSession(current)
		return nil
	},
}

var rotationStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show rotation statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		stats, err := apiClient.GetRotationStats(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Rotation"))
		fmt.Println(field("Total rotations", stats.TotalRotations))
		fmt.Println(field("Succeeded", stats.SuccessCount))
		fmt.Println(field("Failed", stats.FailureCount))
		fmt.Println(field("Success rate", fmt.Sprintf("%.1f%%", stats.SuccessRate)))

		if len(stats.GeoStats) > 0 {
			countries := make([]string, 0, len(stats.GeoStats))
			for country := range stats.GeoStats {
				countries = append(countries, country)
			}
			sort.Strings(countries)

			fmt.Println()
			fmt.Println(headerStyle.Render("By country"))
			for _, country := range countries {
				fmt.Printf("  %-4s %d\n", country, stats.GeoStats[country])
			}
		}

		if len(stats.RecentEvents) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Recent rotations"))
			for _, event := range stats.RecentEvents {
				fmt.Printf("  %s  %-14s %-4s %s\n",
					mutedStyle.Render(event.Timestamp), event.Mode, event.Country, event.Reason)
			}
		}
		return nil
	},
}

var rotationGeoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Target a country, state or city",
	RunE: func(cmd *cobra.Command, args []string) error {

		country, _ := cmd.Flags().GetString("country")
		city, _ := cmd.Flags().GetString("city")
		state, _ := cmd.Flags().GetString("state")

		if !common.IsValidCountryCode(country) {
			return fmt.Errorf("invalid country code: %q", country)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		target := models.GeoTarget{
			Country: strings.ToUpper(country),
			City:    city,
			State:   state,
		}
		if err := apiClient.SetGeoTargeting(ctx, target); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Geo targeting updated"))
		return nil
	},
}

func rotationConfigFromFlags(cmd *cobra.Command) (*models.RotationConfig, error) {

	var config *models.RotationConfig

	if file, _ := cmd.Flags().GetString("file"); len(file) > 0 {
		loaded, err := common.ReadFileToInterface(file, models.RotationConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to read rotation config: %w", err)
		}
		config = loaded
	} else {
		mode, _ := cmd.Flags().GetString("mode")
		country, _ := cmd.Flags().GetString("country")
		city, _ := cmd.Flags().GetString("city")
		state, _ := cmd.Flags().GetString("state")

		config = &models.RotationConfig{
			Mode:    models.RotationMode(mode),
			Country: country,
			City:    city,
			State:   state,
		}
	}

	config.Country = strings.ToUpper(config.Country)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(config.Country) > 0 && !common.IsValidCountryCode(config.Country) {
		return nil, fmt.Errorf("invalid country code: %q", config.Country)
	}

	return config, nil
}

func printRotationConfig(config *models.RotationConfig) {
	fmt.Println(headerStyle.Render("Rotation configuration"))
	fmt.Println(field("Mode", config.Mode))
	if sticky := config.Mode.StickyDuration(); sticky > 0 {
		fmt.Println(field("Sticky for", common.FormatDurationRemaining(sticky)))
	}
	fmt.Println(field("Country", valueOr(config.Country, "any")))
	if len(config.State) > 0 {
		fmt.Println(field("State", config.State))
	}
	if len(config.City) > 0 {
		fmt.Println(field("City", config.City))
	}
}

func printSession(current *models.Session) {
	fmt.Println(headerStyle.Render("Session " + current.ID))
	if len(current.IP) > 0 {
		fmt.Println(field("IP", current.IP))
	}
	if len(current.Location) > 0 {
		fmt.Println(field("Location", current.Location))
	}
	if current.IsExpired() {
		fmt.Println(field("Expires", errorStyle.Render("expired")))
	} else if !current.ExpiresAt.IsZero() {
		fmt.Println(field("Expires", fmt.Sprintf("%s (%s)",
			current.ExpiresAt.Local().Format("15:04:05"),
			common.FormatDurationRemaining(current.Remaining()))))
	}
}

func valueOr(value, fallback string) string {
	if len(value) == 0 {
		return fallback
	}
	return value
}

func init() {
	modes := make([]string, len(models.RotationModes))
	for i, mode := range models.RotationModes {
		modes[i] = string(mode)
	}

	rotationSetCmd.Flags().String("mode", string(models.RotationPerRequest), "Rotation mode: "+strings.Join(modes, ", "))
	rotationSetCmd.Flags().String("country", "", "Two letter country code")
	rotationSetCmd.Flags().String("city", "", "City")
	rotationSetCmd.Flags().String("state", "", "State or region")
	rotationSetCmd.Flags().StringP("file", "f", "", "Read the configuration from a YAML or JSON file")
	rotationSetCmd.MarkFlagsMutuallyExclusive("file", "mode")
	rotationSetCmd.MarkFlagsMutuallyExclusive("file", "country")

	rotationGeoCmd.Flags().String("country", "", "Two letter country code")
	rotationGeoCmd.Flags().String("city", "", "City")
	rotationGeoCmd.Flags().String("state", "", "State or region")
	_ = rotationGeoCmd.MarkFlagRequired("country")

	rotationCmd.AddCommand(rotationConfigCmd)
	rotationCmd.AddCommand(rotationSetCmd)
	rotationCmd.AddCommand(rotationSessionCmd)
	rotationCmd.AddCommand(rotationRotateCmd)
	rotationCmd.AddCommand(rotationStatsCmd)
	rotationCmd.AddCommand(rotationGeoCmd)

	rootCmd.AddCommand(rotationCmd)
}
