package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to AtlanticProxy",
	Long:  "Signs in with email and password and stores the session token for later commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthenticate(cmd, false)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an AtlanticProxy account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthenticate(cmd, true)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if !session.IsAuthenticated() {
			fmt.Println(infoStyle.Render("Not logged in"))
			return nil
		}

		if err := apiClient.Logout(ctx); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Logged out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed in account",
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		user, err := apiClient.GetMe(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Account"))
		fmt.Println(field("Email", user.GetName()))
		fmt.Println(field("ID", user.ID))
		if len(user.CreatedAt) > 0 {
			fmt.Println(field("Member since", user.CreatedAt))
		}
		fmt.Println(field("Token", common.MaskToken(session.Token())))
		return nil
	},
}

func runAuthenticate(cmd *cobra.Command, register bool) error {

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	credentials := models.Credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}

	if credentials.IsEmpty() {
		if err := promptCredentials(&credentials, register); err != nil {
			return err
		}
	}

	if !common.IsValidEmail(credentials.Email) {
		return fmt.Errorf("invalid email address: %s", credentials.Email)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var (
		user *models.User
		err  error
	)
	if register {
		user, err = apiClient.Register(ctx, credentials.Email, credentials.Password)
	} else {
		user, err = apiClient.Login(ctx, credentials.Email, credentials.Password)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	if register {
		fmt.Println(successStyle.Render("Account created!"))
	} else {
		fmt.Println(successStyle.Render("Login successful!"))
	}
	fmt.Println(field("Signed in as", user.GetName()))
	fmt.Println()

	return nil
}

func promptCredentials(credentials *models.Credentials, register bool) error {

	title := "Sign in to AtlanticProxy"
	if register {
		title = "Create your AtlanticProxy account"
	}

	var confirm string

	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Value(&credentials.Email).
			Validate(func(s string) error {
				if !common.IsValidEmail(strings.TrimSpace(s)) {
					return errors.New("enter a valid email address")
				}
				return nil
			}),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&credentials.Password).
			Validate(func(s string) error {
				if len(s) == 0 {
					return errors.New("password is required")
				}
				return nil
			}),
	}

	if register {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&confirm).
			Validate(func(s string) error {
				if s != credentials.Password {
					return errors.New("passwords do not match")
				}
				return nil
			}))
	}

	fmt.Println(titleStyle.Render(title))

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return fmt.Errorf("login prompt cancelled: %w", err)
	}

	credentials.Email = strings.TrimSpace(credentials.Email)
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringP("email", "e", "", "Account email")
		cmd.Flags().StringP("password", "p", "", "Account password (prompted when omitted)")
	}

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
