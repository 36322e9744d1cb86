package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/atlanticproxy/atlantic/internal/stream"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current proxy connection",
	RunE: func(cmd *cobra.Command, args []string) error {

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			return runStatusTUI()
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		status, err := apiClient.GetStatus(ctx)
		if err != nil {
			return err
		}

		fmt.Println(renderStatus(status))
		return nil
	},
}

var statisticsCmd = &cobra.Command{
	Use:     "statistics",
	Aliases: []string{"stats"},
	Short:   "Show traffic statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		stats, err := apiClient.GetStatistics(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Statistics"))
		fmt.Println(field("Data transferred", common.FormatBytes(stats.DataTransferred)))
		fmt.Println(field("Requests blocked", stats.RequestsBlocked))
		fmt.Println(field("Uptime", common.FormatDurationRemaining(time.Duration(stats.Uptime)*time.Second)))

		if len(stats.ConnectionHistory) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Recent connections"))
			for _, record := range stats.ConnectionHistory {
				fmt.Printf("  %s  %-20s %s\n",
					mutedStyle.Render(record.Timestamp),
					record.Location,
					common.FormatDurationRemaining(time.Duration(record.Duration)*time.Second))
			}
		}
		return nil
	},
}

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Show leak protection and anonymity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		security, err := apiClient.GetSecurityStatus(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Security"))
		fmt.Println(field("Anonymity score", fmt.Sprintf("%d/100", security.AnonymityScore)))
		fmt.Println(field("IP leak", yesNo(security.IPLeakDetected)))
		fmt.Println(field("DNS leak", yesNo(security.DNSLeakDetected)))
		fmt.Println(field("WebRTC leak", yesNo(security.WebRTCLeakDetected)))
		fmt.Println(field("Strict kill switch", onOff(security.StrictKillSwitch)))
		if len(security.DetectedDNS) > 0 {
			fmt.Println(field("DNS servers", strings.Join(security.DetectedDNS, ", ")))
		}
		if len(security.Message) > 0 {
			fmt.Println()
			fmt.Println(infoStyle.Render(security.Message))
		}
		if security.HasLeaks() {
			fmt.Println()
			fmt.Println(warningStyle.Render("Leaks detected. Enable the strict kill switch to block traffic outside the proxy."))
		}
		return nil
	},
}

func statusBadge(status *models.ProxyStatus) string {
	switch {
	case status.KillSwitch && !status.Connected:
		return warningBadgeStyle.Render("KILL SWITCH")
	case status.Connected:
		return connectedBadgeStyle.Render("CONNECTED")
	default:
		return disconnectedBadgeStyle.Render("DISCONNECTED")
	}
}

func renderStatus(status *models.ProxyStatus) string {

	var content strings.Builder

	content.WriteString(headerStyle.Render("Proxy status "))
	content.WriteString(statusBadge(status))
	content.WriteString("\n\n")

	content.WriteString(field("Location", status.GetLocation()) + "\n")
	if len(status.IPAddress) > 0 {
		content.WriteString(field("IP address", status.IPAddress) + "\n")
	}
	if len(status.ISP) > 0 {
		isp := status.ISP
		if len(status.ASN) > 0 {
			isp = fmt.Sprintf("%s (%s)", isp, status.ASN)
		}
		content.WriteString(field("ISP", isp) + "\n")
	}
	if status.Latency > 0 {
		content.WriteString(field("Latency", fmt.Sprintf("%d ms", status.Latency)) + "\n")
	}
	if len(status.ProtectionLevel) > 0 {
		content.WriteString(field("Protection", status.ProtectionLevel) + "\n")
	}
	content.WriteString(field("Kill switch", onOff(status.KillSwitch)) + "\n")
	if len(status.LastCheck) > 0 {
		content.WriteString(field("Last check", status.LastCheck) + "\n")
	}
	if len(status.Error) > 0 {
		content.WriteString(errorStyle.Render("Error: "+status.Error) + "\n")
	}

	return strings.TrimSuffix(content.String(), "\n")
}

type statusMsg struct {
	status models.ProxyStatus
}

type streamStateMsg struct {
	state stream.State
}

type statusModel struct {
	spinner    spinner.Model
	status     *models.ProxyStatus
	state      stream.State
	lastUpdate time.Time
	quitting   bool
}

func newStatusModel() statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))

	return statusModel{
		spinner: s,
		state:   stream.StateConnecting,
	}
}

func (m statusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMsg:
		status := msg.status
		m.status = &status
		m.lastUpdate = time.Now()

	case streamStateMsg:
		m.state = msg.state
	}

	return m, nil
}

func (m statusModel) View() string {
	if m.quitting {
		return ""
	}

	var content strings.Builder

	if m.status == nil {
		content.WriteString(fmt.Sprintf("\n %s Waiting for status...\n", m.spinner.View()))
	} else {
		content.WriteString(panelStyle.Render(renderStatus(m.status)))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(m.renderFeedState())
	content.WriteString("\n")

	if !m.lastUpdate.IsZero() {
		content.WriteString(mutedStyle.Render(fmt.Sprintf("Last updated: %s", m.lastUpdate.Format("15:04:05"))))
		content.WriteString("\n")
	}

	content.WriteString(mutedStyle.Render("Press q to quit"))
	content.WriteString("\n")

	return content.String()
}

func (m statusModel) renderFeedState() string {
	switch m.state {
	case stream.StateOpen:
		return successStyle.Render("Live")
	case stream.StateConnecting, stream.StateRetrying:
		return fmt.Sprintf("%s %s", m.spinner.View(), warningStyle.Render("Reconnecting to status feed"))
	case stream.StateExhausted:
		return errorStyle.Render("Status feed unavailable. Showing last known status.")
	default:
		return mutedStyle.Render(m.state.String())
	}
}

func runStatusTUI() error {

	program := tea.NewProgram(newStatusModel())

	sub := apiClient.OpenStatusStream(
		func(status models.ProxyStatus) {
			program.Send(statusMsg{status: status})
		},
		stream.WithStateHook(func(state stream.State) {
			go program.Send(streamStateMsg{state: state})
		}),
	)
	defer sub.Close()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

func init() {
	statusCmd.Flags().BoolP("watch", "w", false, "Follow the live status feed")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statisticsCmd)
	rootCmd.AddCommand(securityCmd)
}
