package cli

import (
	"fmt"
	"sort"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/spf13/cobra"
)

var adblockCmd = &cobra.Command{
	Use:   "adblock",
	Short: "Manage ad blocking",
}

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "List domains that bypass ad blocking",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		domains, err := apiClient.GetWhitelist(ctx)
		if err != nil {
			return err
		}

		if len(domains) == 0 {
			fmt.Println(infoStyle.Render("Whitelist is empty"))
			return nil
		}

		fmt.Println(headerStyle.Render("Whitelisted domains"))
		for _, domain := range domains {
			fmt.Println("  " + domain)
		}
		return nil
	},
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add <domain>",
	Short: "Allow a domain through the ad blocker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsValidDomain(args[0]) {
			return fmt.Errorf("invalid domain: %s", args[0])
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := apiClient.AddToWhitelist(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Whitelisted " + args[0]))
		return nil
	},
}

var whitelistRemoveCmd = &cobra.Command{
	Use:   "remove <domain>",
	Short: "Remove a domain from the whitelist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := apiClient.RemoveFromWhitelist(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Removed " + args[0]))
		return nil
	},
}

var adblockRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the latest blocklists",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := apiClient.RefreshAdblock(ctx); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Blocklists refreshed"))
		return nil
	},
}

var adblockStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show blocklist statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		stats, err := apiClient.GetAdblockStats(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Ad blocking"))
		fmt.Println(field("Rules", stats.RulesCount))
		fmt.Println(field("Last updated", stats.LastUpdated))

		keys := make([]string, 0, len(stats.Extra))
		for key := range stats.Extra {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Println(field(key, stats.Extra[key]))
		}
		return nil
	},
}

var adblockRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List custom blocking rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rules, err := apiClient.GetCustomRules(ctx)
		if err != nil {
			return err
		}

		if len(rules) == 0 {
			fmt.Println(infoStyle.Render("No custom rules"))
			return nil
		}

		fmt.Println(headerStyle.Render("Custom rules"))
		for _, rule := range rules {
			fmt.Println("  " + rule)
		}
		return nil
	},
}

var adblockRulesSetCmd = &cobra.Command{
	Use:   "set [rule...]",
	Short: "Replace the custom rules. No arguments clears them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rules := common.Unique(common.FilterEmpty(args...))
		if err := apiClient.SetCustomRules(ctx, rules); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Saved %d custom rules", len(rules))))
		return nil
	},
}

func init() {
	whitelistCmd.AddCommand(whitelistAddCmd)
	whitelistCmd.AddCommand(whitelistRemoveCmd)
	adblockRulesCmd.AddCommand(adblockRulesSetCmd)

	adblockCmd.AddCommand(whitelistCmd)
	adblockCmd.AddCommand(adblockRefreshCmd)
	adblockCmd.AddCommand(adblockStatsCmd)
	adblockCmd.AddCommand(adblockRulesCmd)

	rootCmd.AddCommand(adblockCmd)
}
