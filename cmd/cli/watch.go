package cli

import (
	"fmt"
	"time"

	"github.com/atlanticproxy/atlantic/internal/agent"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the connection and notify on changes",
	Long: `Follows the live status feed and prints a notification whenever the
proxy connects, disconnects or the kill switch engages. When the feed
cannot be reached the status is polled until it recovers.

With --serve the last known status, favorites and recent logs are also
served on the local relay (server.host:server.port).`,
	RunE: func(cmd *cobra.Command, args []string) error {

		serve, _ := cmd.Flags().GetBool("serve")

		// Started by the platform service manager
		if !service.Interactive() {
			svc, err := agent.CreateService(cfg, apiClient, session)
			if err != nil {
				return fmt.Errorf("failed to create service: %w", err)
			}
			return svc.Run()
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		notifier := agent.NotifierFunc(func(n models.Notification) {
			fmt.Printf("%s  %s  %s\n",
				mutedStyle.Render(n.Time.Local().Format(time.TimeOnly)),
				headerStyle.Render(n.Title),
				n.Message)
		})

		runner := agent.NewAgent(cfg, apiClient, session, serve,
			agent.WithNotifier(notifier),
			agent.WithUpdateHook(func(status models.ProxyStatus) {
				if len(status.Error) > 0 {
					fmt.Println(errorStyle.Render("Backend error: " + status.Error))
				}
			}),
		)

		if err := runner.Start(ctx); err != nil {
			return err
		}
		defer runner.Stop()

		fmt.Println(titleStyle.Render("Watching " + cfg.GetAPIEndpoint()))
		if serve {
			fmt.Println(infoStyle.Render("Relay listening on http://" + cfg.GetServerAddress()))
		}
		fmt.Println(mutedStyle.Render("Press Ctrl+C to stop"))

		<-ctx.Done()
		fmt.Println()
		fmt.Println("Stopping watcher...")
		return nil
	},
}

func init() {
	watchCmd.Flags().Bool("serve", false, "Also serve the local relay")
	rootCmd.AddCommand(watchCmd)
}
