package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/spf13/cobra"
)

// copyText is swapped in tests; headless CI has no clipboard.
var copyText = clipboard.WriteAll

// readSecret returns value when set, otherwise the next line from in.
func readSecret(cmd *cobra.Command, prompt, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("%s is required", strings.TrimSuffix(strings.TrimSpace(prompt), ":"))
	}
	return line, nil
}

func loginCmd(flags *globalFlags) *cobra.Command {
	var mail, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(mail) == "" {
				return errors.New("--email is required")
			}
			pw, err := readSecret(cmd, "password: ", password)
			if err != nil {
				return err
			}
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if !a.session.Login(cmd.Context(), mail, pw) {
				return errors.New("login failed, check your email and password")
			}
			owner := a.session.Snapshot().Owner
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("logged in as "+owner.DisplayName()))
			return nil
		},
	}
	cmd.Flags().StringVar(&mail, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func guestCmd(flags *globalFlags) *cobra.Command {
	var copyCreds bool
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Start a throwaway guest session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			ok, account := a.session.LoginAsGuest(cmd.Context())
			if !ok || account == nil {
				return errors.New("guest login failed, try again")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, okStyle.Render("guest session started"))
			fmt.Fprintf(out, "id:       %s\n", account.ID)
			fmt.Fprintf(out, "password: %s\n", account.Password)
			fmt.Fprintln(out, mutedStyle.Render("these credentials are shown once"))
			if copyCreds {
				text := fmt.Sprintf("id: %s\npassword: %s", account.ID, account.Password)
				if err := copyText(text); err != nil {
					return fmt.Errorf("copy credentials: %w", err)
				}
				fmt.Fprintln(out, "copied to clipboard")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyCreds, "copy", false, "copy the generated credentials to the clipboard")
	return cmd
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if _, err := a.restore(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "already logged out")
				return nil
			}
			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			owner, err := a.restore(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(owner.DisplayName()))
			fmt.Fprintf(out, "id:    %s\n", owner.ID)
			if owner.Mail != "" {
				fmt.Fprintf(out, "email: %s\n", owner.Mail)
			}
			if owner.AvatarURL != "" {
				fmt.Fprintf(out, "avatar: %s\n", owner.AvatarURL)
			}
			if owner.IsGuest {
				fmt.Fprintln(out, mutedStyle.Render("guest account"))
			}
			return nil
		},
	}
}

func registerCmd(flags *globalFlags) *cobra.Command {
	var name, mail, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(mail) == "" {
				return errors.New("--name and --email are required")
			}
			pw, err := readSecret(cmd, "password: ", password)
			if err != nil {
				return err
			}
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			profile, err := a.session.Register(cmd.Context(), name, mail, pw)
			if err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("account created for %s, run `taskdeck login --email %s`", profile.DisplayName(), profile.Mail)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&mail, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func passwdCmd(flags *globalFlags) *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if current == "" || next == "" {
				return errors.New("--current and --new are required")
			}
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if _, err := a.restore(cmd.Context()); err != nil {
				return err
			}
			if err := a.session.ChangePassword(cmd.Context(), current, next); err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}

func profileCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the account profile",
	}
	var name, avatar string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update the display name or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("avatar") {
				return errors.New("nothing to change: pass --name or --avatar")
			}
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			owner, err := a.restore(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				name = owner.Name
			}
			if !cmd.Flags().Changed("avatar") {
				avatar = owner.AvatarURL
			}
			profile, err := a.session.UpdateProfile(cmd.Context(), name, avatar)
			if err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("profile saved for "+profile.DisplayName()))
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name")
	set.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	cmd.AddCommand(set)
	return cmd
}
