package cli

import (
	"fmt"
	"strings"

	"github.com/atlanticproxy/atlantic/internal/client"
	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/spf13/cobra"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Plans, subscription and usage",
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List available plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		plans, err := apiClient.GetPlans(ctx)
		if err != nil {
			return err
		}

		for _, plan := range plans {
			fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%s)", plan.Name, plan.ID)))
			fmt.Println(field("Monthly", fmt.Sprintf("$%.2f", plan.PriceMonthly)))
			fmt.Println(field("Annual", fmt.Sprintf("$%.2f", plan.PriceAnnual)))
			fmt.Println(field("Data", formatLimit(plan.DataLimitMB*1024*1024, common.FormatBytes)))
			fmt.Println(field("Requests", formatLimit(plan.RequestLimit, func(n int64) string { return fmt.Sprint(n) })))
			fmt.Println(field("Connections", plan.ConcurrentConns))
			if len(plan.Features) > 0 {
				fmt.Println(field("Features", strings.Join(plan.Features, ", ")))
			}
			fmt.Println()
		}
		return nil
	},
}

var subscriptionCmd = &cobra.Command{
	Use:     "subscription",
	Short:   "Show the current subscription",
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		details, err := apiClient.GetSubscription(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Subscription"))
		fmt.Println(field("Plan", details.Plan.Name))
		fmt.Println(field("Status", details.Subscription.Status))
		fmt.Println(field("Started", details.Subscription.StartDate))
		fmt.Println(field("Ends", details.Subscription.EndDate))
		fmt.Println(field("Auto renew", onOff(details.Subscription.AutoRenew)))
		return nil
	},
}

var subscribeCmd = &cobra.Command{
	Use:     "subscribe <plan>",
	Short:   "Switch to a plan",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		subscription, err := apiClient.Subscribe(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Subscribed to " + subscription.PlanID))
		fmt.Println(field("Status", subscription.Status))
		return nil
	},
}

var usageCmd = &cobra.Command{
	Use:     "usage",
	Short:   "Show usage for the current billing period",
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		usage, err := apiClient.GetUsage(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Usage %s - %s", usage.PeriodStart, usage.PeriodEnd)))
		fmt.Println(field("Data", common.FormatBytes(usage.DataTransferredBytes)))
		fmt.Println(field("Requests", usage.RequestsMade))
		fmt.Println(field("Ads blocked", usage.AdsBlocked))
		fmt.Println(field("Threats blocked", usage.ThreatsBlocked))
		fmt.Println(field("Connections", usage.ActiveConnections))
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Start a payment for a plan",
	RunE: func(cmd *cobra.Command, args []string) error {

		plan, _ := cmd.Flags().GetString("plan")
		email, _ := cmd.Flags().GetString("email")
		method, _ := cmd.Flags().GetString("method")
		currency, _ := cmd.Flags().GetString("currency")

		if !common.IsValidEmail(email) {
			return fmt.Errorf("invalid email address: %s", email)
		}

		request := models.CheckoutRequest{
			PlanID:   plan,
			Email:    email,
			Method:   models.PaymentMethod(strings.ToLower(method)),
			Currency: strings.ToUpper(currency),
		}
		if request.Method != models.PaymentPaystack && request.Method != models.PaymentCrypto {
			return fmt.Errorf("unsupported payment method: %s", method)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		response, err := apiClient.CreateCheckout(ctx, request)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Checkout"))
		if len(response.URL) > 0 {
			fmt.Println(field("Pay at", response.URL))
		}
		if len(response.PaymentID) > 0 {
			fmt.Println(field("Reference", response.PaymentID))
		}
		if len(response.Address) > 0 {
			fmt.Println(field("Send", fmt.Sprintf("%s %s", response.Amount, response.Currency)))
			fmt.Println(field("To address", response.Address))
		}
		fmt.Println()
		fmt.Println(infoStyle.Render("Run 'atlantic billing verify <reference>' once the payment completes."))
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <reference>",
	Short: "Verify a completed payment and sign in with the issued token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		verifier := client.NewPaymentVerifier(cfg.GetVerifyEndpoint(), session)

		result, err := verifier.Verify(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Payment verified"))
		if len(result.Message) > 0 {
			fmt.Println(result.Message)
		}
		if result.Amount > 0 {
			fmt.Println(field("Amount", fmt.Sprintf("%.2f", result.Amount)))
		}
		if len(result.Token) > 0 {
			fmt.Println(field("Signed in", successStyle.Render("yes")))
		}
		return nil
	},
}

func formatLimit(n int64, format func(int64) string) string {
	if n <= 0 {
		return "unlimited"
	}
	return format(n)
}

func init() {
	checkoutCmd.Flags().String("plan", "", "Plan ID")
	checkoutCmd.Flags().String("email", "", "Billing email")
	checkoutCmd.Flags().String("method", string(models.PaymentPaystack), "Payment method: paystack or crypto")
	checkoutCmd.Flags().String("currency", "", "Crypto currency (e.g., BTC)")
	_ = checkoutCmd.MarkFlagRequired("plan")
	_ = checkoutCmd.MarkFlagRequired("email")

	billingCmd.AddCommand(plansCmd)
	billingCmd.AddCommand(subscriptionCmd)
	billingCmd.AddCommand(subscribeCmd)
	billingCmd.AddCommand(usageCmd)
	billingCmd.AddCommand(checkoutCmd)
	billingCmd.AddCommand(verifyCmd)

	rootCmd.AddCommand(billingCmd)
}
