package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"inputdash/internal/api"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password")
}

// resolve prompts for whatever was not given on the command line.
func (f *credentialFlags) resolve(cmd *cobra.Command, title string) error {
	if f.email != "" && f.password != "" {
		return nil
	}
	if !interactive(cmd) {
		return errors.New("--email and --password are required when stdin is not a terminal")
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&f.email).
				Validate(required("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(required("password")),
		).Title(title),
	).WithShowHelp(false)
	return form.RunWithContext(cmd.Context())
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func newLoginCmd(c *cli) *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := c.writer(cmd)
			if c.session.Demo() {
				return w.plain("%s demo mode needs no login (signed in as %s)\n", successStyle.Render("✓"), c.session.Email())
			}
			if err := f.resolve(cmd, "Log in to "+c.cfg.APIURL); err != nil {
				return err
			}
			if err := c.session.Login(cmd.Context(), c.backend, f.email, f.password); err != nil {
				if api.IsStatus(err, http.StatusUnauthorized) {
					return errors.New("invalid email or password")
				}
				return err
			}
			return w.plain("%s logged in as %s\n", successStyle.Render("✓"), c.session.Email())
		},
	}
	f.bind(cmd)
	return cmd
}

func newRegisterCmd(c *cli) *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := c.writer(cmd)
			if c.session.Demo() {
				return w.plain("%s demo mode needs no account (signed in as %s)\n", successStyle.Render("✓"), c.session.Email())
			}
			if err := f.resolve(cmd, "Register at "+c.cfg.APIURL); err != nil {
				return err
			}
			if err := c.session.Register(cmd.Context(), c.backend, f.email, f.password); err != nil {
				return err
			}
			return w.plain("%s registered and logged in as %s\n", successStyle.Render("✓"), c.session.Email())
		},
	}
	f.bind(cmd)
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := c.writer(cmd)
			if c.session.Demo() {
				return w.plain("demo mode: nothing to log out of\n")
			}
			if client, ok := c.backend.(*api.Client); ok && c.session.Authenticated() {
				if err := client.Logout(cmd.Context()); err != nil && !api.IsStatus(err, http.StatusUnauthorized) {
					c.log.Warn("server logout failed", zap.Error(err))
				}
			}
			if err := c.session.Logout(); err != nil {
				return err
			}
			return w.plain("%s logged out\n", successStyle.Render("✓"))
		},
	}
}

type whoami struct {
	Email  string `json:"email"`
	ID     int64  `json:"id,omitempty"`
	Source string `json:"token_source"`
	Demo   bool   `json:"demo"`
	APIURL string `json:"api_url,omitempty"`
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.Require(); err != nil {
				return err
			}
			info := whoami{
				Email:  c.session.Email(),
				Source: c.session.Source(),
				Demo:   c.session.Demo(),
			}
			if client, ok := c.backend.(*api.Client); ok {
				me, err := client.Me(cmd.Context())
				if err != nil {
					if api.IsStatus(err, http.StatusUnauthorized) {
						return errors.New("session expired: run `inputdash login` again")
					}
					return err
				}
				info.Email = me.Email
				info.ID = me.ID
				info.APIURL = c.cfg.APIURL
			}

			w := c.writer(cmd)
			if ok, err := w.encode(info); ok {
				return err
			}
			mode := "api " + info.APIURL
			if info.Demo {
				mode = "demo"
			}
			return w.plain("%s %s\n%s\n", titleStyle.Render(info.Email),
				mutedStyle.Render("("+mode+")"),
				mutedStyle.Render("token from "+info.Source))
		},
	}
}
