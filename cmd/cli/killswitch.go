package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var killSwitchCmd = &cobra.Command{
	Use:       "killswitch on|off|status",
	Short:     "Control the kill switch",
	Long:      "The kill switch blocks all traffic whenever the proxy connection drops",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		switch args[0] {
		case "status":
			state, err := apiClient.GetKillSwitch(ctx)
			if err != nil {
				return err
			}
			fmt.Println(field("Kill switch", onOff(state.Enabled)))
			return nil
		default:
			enabled := args[0] == "on"
			if err := apiClient.ToggleKillSwitch(ctx, enabled); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("Kill switch updated"))
			fmt.Println(field("Kill switch", onOff(enabled)))
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(killSwitchCmd)
}
