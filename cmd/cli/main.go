package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/atlanticproxy/atlantic/internal/client"
	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Shared state, populated by preRunConfigE before any command runs.
var (
	cfg       *config.Config
	session   *sessions.Session
	apiClient *client.Client
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {

	var err error
	cfg, err = loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if endpoint, err := cmd.Flags().GetString("endpoint"); err == nil && len(endpoint) > 0 {
		if !common.IsValidURL(endpoint) {
			return fmt.Errorf("invalid endpoint: %s", endpoint)
		}
		cfg.API.Endpoint = endpoint
	}

	store, err := sessions.OpenStore(
		string(cfg.Storage.Backend),
		cfg.GetStoragePath(),
		cfg.GetAPIHostname(),
	)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	session = sessions.NewSession(store)
	apiClient = client.NewClientFromConfig(cfg, session,
		client.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, warningStyle.Render("Session expired. Run 'atlantic login' to sign in again."))
		}),
	)

	logrus.WithFields(logrus.Fields{
		"endpoint":      cfg.GetAPIEndpoint(),
		"storage":       cfg.Storage.Backend,
		"authenticated": session.IsAuthenticated(),
	}).Debugln("Client initialized")

	return nil
}

func postRunE(_ *cobra.Command, _ []string) error {
	if session != nil {
		return session.Store().Close()
	}
	return nil
}

// requireLogin fails fast for commands that cannot work without a token.
func requireLogin(_ *cobra.Command, _ []string) error {
	if !session.IsAuthenticated() {
		return fmt.Errorf("not logged in, run 'atlantic login' first")
	}
	return nil
}

// commandContext is cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return common.WithInterrupt(parent)
}

var rootCmd = &cobra.Command{
	Use:   "atlantic",
	Short: "AtlanticProxy - command line client for the AtlanticProxy service",
	Long: `AtlanticProxy routes your traffic through a rotating residential proxy
with a kill switch, ad blocking and leak protection.

This client talks to the local AtlanticProxy service. It can sign you in,
inspect and change the proxy configuration, and watch the live connection
status.

If no config file is specified, the client looks for config.yaml in:
  - .
  - ./config
  - /etc/atlantic
  - ~/.config/atlantic`,
	PersistentPreRunE:  preRunConfigE,
	PersistentPostRunE: postRunE,
	SilenceUsage:       true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is $HOME/.config/atlantic/config.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the API endpoint (e.g., http://localhost:8082)")
}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}

func Execute() error {
	return rootCmd.Execute()
}
