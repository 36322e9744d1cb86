package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/atlanticproxy/atlantic/internal/agent"
	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Service management commands",
	Long:  `Run the status watcher and local relay as a system service`,
}

func createService() (service.Service, error) {
	s, err := agent.CreateService(cfg, apiClient, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the watcher as a system service",
	Long:  `Install the watcher as a system service that starts automatically on boot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := createService()
		if err != nil {
			return err
		}

		if err := s.Install(); err != nil {
			printInstallInstructions()
			return fmt.Errorf("failed to install service: %w", err)
		}

		fmt.Println(successStyle.Render("Watcher service installed"))
		fmt.Println("   Use 'atlantic service start' to start the service")
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:     "uninstall",
	Aliases: []string{"remove"},
	Short:   "Uninstall the watcher service",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := createService()
		if err != nil {
			return err
		}

		if err := s.Stop(); err != nil {
			fmt.Println(mutedStyle.Render("Service was not running"))
		}

		if err := s.Uninstall(); err != nil {
			return fmt.Errorf("failed to uninstall service: %w", err)
		}

		fmt.Println(successStyle.Render("Watcher service uninstalled"))
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the watcher service",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := createService()
		if err != nil {
			return err
		}

		if err := s.Start(); err != nil {
			return fmt.Errorf("failed to start service: %w", err)
		}

		fmt.Println(successStyle.Render("Watcher service started"))
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the watcher service",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := createService()
		if err != nil {
			return err
		}

		if err := s.Stop(); err != nil {
			return fmt.Errorf("failed to stop service: %w", err)
		}

		fmt.Println(successStyle.Render("Watcher service stopped"))
		return nil
	},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the watcher service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := createService()
		if err != nil {
			return err
		}

		status, err := s.Status()
		if err != nil && !errors.Is(err, service.ErrNotInstalled) {
			return fmt.Errorf("failed to get service status: %w", err)
		}

		var statusText string
		switch {
		case errors.Is(err, service.ErrNotInstalled):
			statusText = mutedStyle.Render("Not installed")
		case status == service.StatusRunning:
			statusText = successStyle.Render("Running")
		case status == service.StatusStopped:
			statusText = warningStyle.Render("Stopped")
		default:
			statusText = mutedStyle.Render("Unknown")
		}

		fmt.Println(field("Watcher service", statusText))
		return nil
	},
}

func printInstallInstructions() {
	exePath, _ := os.Executable()
	fmt.Println("\nService installation failed. You may need to run with elevated privileges:")
	fmt.Println("\nLinux:")
	fmt.Printf("   sudo %s service install\n", exePath)
	fmt.Println("\nWindows:")
	fmt.Printf("   Run as Administrator: %s service install\n", exePath)
	fmt.Println("\nmacOS:")
	fmt.Printf("   sudo %s service install\n", exePath)
}

func init() {
	serviceCmd.AddCommand(installCmd)
	serviceCmd.AddCommand(uninstallCmd)
	serviceCmd.AddCommand(startCmd)
	serviceCmd.AddCommand(stopCmd)
	serviceCmd.AddCommand(serviceStatusCmd)

	rootCmd.AddCommand(serviceCmd)
}
