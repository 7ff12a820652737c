package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/quantdash/internal/session"
)

// credentials holds login and register inputs. Missing values are prompted for.
type credentials struct {
	name     string
	email    string
	password string
}

func newLoginCmd(c *CLI) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptCredentials(&creds, false); err != nil {
				return err
			}
			if err := c.app.Session.Login(cmd.Context(), creds.email, creds.password); err != nil {
				return authError("login", err)
			}
			c.printWelcome()
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(c *CLI) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptCredentials(&creds, true); err != nil {
				return err
			}
			if err := c.app.Session.Register(cmd.Context(), creds.name, creds.email, creds.password); err != nil {
				return authError("registration", err)
			}
			c.printWelcome()
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.name, "name", "", "Display name")
	cmd.Flags().StringVar(&creds.email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.app.Session.Logout(cmd.Context())
			c.printf("Signed out\n")
		},
	}
}

func newWhoamiCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			user := c.app.Session.User()
			if user == nil {
				c.printf("Not signed in\n")
				return
			}
			c.printf("%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
		},
	}
}

func (c *CLI) printWelcome() {
	if user := c.app.Session.User(); user != nil {
		c.printf("Signed in as %s <%s>\n", user.Name, user.Email)
	}
}

// authError turns a rejected credential into a user-facing message.
func authError(action string, err error) error {
	if errors.Is(err, session.ErrInvalidCredentials) {
		return fmt.Errorf("%s failed: invalid email or password", action)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}

// promptCredentials asks for any value not supplied by flags.
func promptCredentials(creds *credentials, withName bool) error {
	var qs []*survey.Question
	if withName && creds.name == "" {
		qs = append(qs, &survey.Question{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Name:"},
			Validate: survey.Required,
		})
	}
	if creds.email == "" {
		qs = append(qs, &survey.Question{
			Name:   "email",
			Prompt: &survey.Input{Message: "Email:"},
			Validate: survey.ComposeValidators(survey.Required, func(val interface{}) error {
				if s, _ := val.(string); !strings.Contains(s, "@") {
					return errors.New("enter a valid email address")
				}
				return nil
			}),
		})
	}
	if creds.password == "" {
		qs = append(qs, &survey.Question{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		})
	}
	if len(qs) == 0 {
		return nil
	}

	answers := struct {
		Name     string
		Email    string
		Password string
	}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return err
	}
	if answers.Name != "" {
		creds.name = answers.Name
	}
	if answers.Email != "" {
		creds.email = strings.TrimSpace(answers.Email)
	}
	if answers.Password != "" {
		creds.password = answers.Password
	}
	return nil
}
