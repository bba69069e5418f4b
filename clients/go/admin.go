package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vaarthai/vithai/internal/i18n"
	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/session"
)

func newLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in as admin; the password is read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			lang := language()
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", i18n.T(lang, "enterPassword"))
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return err
			}
			password := strings.TrimRight(line, "\r\n")

			s, err := openSession(newClient())
			if err != nil {
				return err
			}
			if err := s.Login(ctx, password); err != nil {
				if errors.Is(err, session.ErrUnauthorized) {
					return errors.New(i18n.T(lang, i18n.KeyInvalidPassword))
				}
				return err
			}
			printf(cmd, "ok\n")
			return nil
		},
	}
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(newClient())
			if err != nil {
				return err
			}
			return s.Logout()
		},
	}
}

// messageFlags binds the editable fields of a message to command flags.
type messageFlags struct {
	title, subtitle, date, duration, audio, thumbnail string
}

func (f *messageFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Title")
	fs.StringVar(&f.subtitle, "subtitle", "", "Subtitle")
	fs.StringVar(&f.date, "date", "", "Date (YYYY-MM-DD)")
	fs.StringVar(&f.duration, "duration", "", "Duration (MM:SS)")
	fs.StringVar(&f.audio, "audio", "", "Audio link; Google Drive share links are converted")
	fs.StringVar(&f.thumbnail, "thumbnail", "", "Thumbnail link")
}

// apply copies the flags that were set on the command line onto m.
func (f *messageFlags) apply(fs *pflag.FlagSet, m models.Message) models.Message {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("title", &m.Title, f.title)
	set("subtitle", &m.Subtitle, f.subtitle)
	set("date", &m.Date, f.date)
	set("duration", &m.Duration, f.duration)
	set("audio", &m.AudioURL, f.audio)
	set("thumbnail", &m.Thumbnail, f.thumbnail)
	return m
}

// explainAuth turns session errors into a hint to log in again.
func explainAuth(err error) error {
	if errors.Is(err, session.ErrNotLoggedIn) || errors.Is(err, session.ErrUnauthorized) {
		return fmt.Errorf("%w (run `vithai login`)", err)
	}
	return err
}

func newAddCommand() *cobra.Command {
	var flags messageFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			s, err := openSession(newClient())
			if err != nil {
				return err
			}
			saved, err := s.Save(ctx, flags.apply(cmd.Flags(), models.Message{}))
			if err != nil {
				return explainAuth(err)
			}
			printf(cmd, "%s\n", saved.ID)
			return nil
		},
	}
	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEditCommand() *cobra.Command {
	var flags messageFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a top-level message; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			client := newClient()
			current, err := client.GetMessage(ctx, args[0])
			if err != nil {
				return err
			}

			s, err := openSession(client)
			if err != nil {
				return err
			}
			saved, err := s.Save(ctx, flags.apply(cmd.Flags(), *current))
			if err != nil {
				return explainAuth(err)
			}
			printf(cmd, "%s\n", renderMessages(language(), treeRows([]models.Message{*saved})))
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a top-level message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if !yes {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", i18n.T(language(), "confirmDelete"))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					return nil
				}
			}

			s, err := openSession(newClient())
			if err != nil {
				return err
			}
			return explainAuth(s.Delete(ctx, args[0]))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			st, err := newClient().Stats(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, st)
			}
			printf(cmd, "%s\n", renderPairs([][2]string{
				{i18n.Heading(language(), i18n.KeyMessages), fmt.Sprint(st.Messages)},
				{"Series", fmt.Sprint(st.Containers)},
				{"Tracks", fmt.Sprint(st.Tracks)},
				{"Latest", st.LatestDate},
			}))
			return nil
		},
	}
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			resp, err := newClient().Health(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}
