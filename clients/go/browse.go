package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaarthai/vithai/internal/i18n"
	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/player"
	"github.com/vaarthai/vithai/internal/playlist"
	"github.com/vaarthai/vithai/internal/search"
)

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	printf(cmd, "%s\n", data)
	return nil
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			messages, err := newClient().ListMessages(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, messages)
			}
			if len(messages) == 0 {
				printf(cmd, "%s\n", i18n.T(language(), i18n.KeyNoMessages))
				return nil
			}
			printf(cmd, "%s\n", renderMessages(language(), treeRows(messages)))
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one message or sub-message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			m, err := newClient().GetMessage(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, m)
			}

			lang := language()
			pairs := [][2]string{
				{"ID", m.ID},
				{i18n.Heading(lang, "title"), m.Title},
				{i18n.Heading(lang, "subtitle"), m.Subtitle},
				{i18n.Heading(lang, "date"), m.Date},
				{i18n.Heading(lang, "duration"), m.Duration},
				{i18n.Heading(lang, "audioLink"), m.AudioURL},
				{i18n.Heading(lang, "thumbnailLink"), m.Thumbnail},
			}
			printf(cmd, "%s\n", renderPairs(pairs))
			if len(m.SubMessages) > 0 {
				printf(cmd, "%s\n", renderMessages(lang, flatRows(m.SubMessages)))
			}
			return nil
		},
	}
}

func newPlayOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play-order [id]",
		Short: "Print the playback queue, starting from id if given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			messages, err := newClient().ListMessages(ctx)
			if err != nil {
				return err
			}

			pl := playlist.New(messages)
			start := 0
			if len(args) == 1 {
				var ok bool
				pl, start, ok = playlist.Resolve(messages, args[0])
				if !ok {
					return fmt.Errorf("%s: %s", i18n.T(language(), i18n.KeyNoMessage), args[0])
				}
			}
			if pl.Len() == 0 {
				printf(cmd, "%s\n", i18n.T(language(), i18n.KeyNoMessages))
				return nil
			}

			// one full lap, wrapping round to the tracks before start
			tracks := pl.Tracks()
			rotated := make([]models.Message, 0, len(tracks))
			rotated = append(rotated, tracks[start:]...)
			rotated = append(rotated, tracks[:start]...)
			order := flatRows(rotated)
			if asJSON {
				ids := make([]string, len(order))
				for i, row := range order {
					ids[i] = row.Message.ID
				}
				return printJSON(cmd, ids)
			}
			printf(cmd, "%s\n", renderMessages(language(), order))
			return nil
		},
	}
}

func newSearchCommand() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search messages by title, subtitle or date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			client := newClient()
			messages, err := client.ListMessages(ctx)
			if err != nil {
				return err
			}

			var ranker search.Ranker = client
			if local {
				ranker = nil
			}
			filter := search.NewFilter(ranker, messages,
				search.WithContext(ctx),
				search.WithLogger(logger()),
			)
			results := filter.Run(strings.Join(args, " "))

			if asJSON {
				return printJSON(cmd, results)
			}
			lang := language()
			if len(results) == 0 {
				printf(cmd, "%s\n", i18n.T(lang, i18n.KeyNoMessages))
				return nil
			}
			printf(cmd, "%d %s\n", len(results), i18n.T(lang, i18n.KeyResults))
			printf(cmd, "%s\n", renderMessages(lang, flatRows(results)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Skip the ranking provider")
	return cmd
}

func newVerseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verse",
		Short: "Print today's verse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			lang := language()
			v, err := newClient().Verse(ctx, lang)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, v)
			}
			printf(cmd, "%s\n\n  %s\n  - %s\n", i18n.T(lang, i18n.KeyDailyVerse), v.Verse, v.Reference)
			return nil
		},
	}
}

func newShareCommand() *cobra.Command {
	var publicURL string

	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Print the share link for a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			m, err := newClient().GetMessage(ctx, args[0])
			if err != nil {
				return err
			}
			if !m.IsLeaf() {
				return errors.New("only playable tracks can be shared; share one of its parts")
			}

			base := publicURL
			if base == "" {
				base = baseURL
			}
			lang := language()
			printf(cmd, "%s: %s\n%s\n", i18n.T(lang, i18n.KeyAppTitle), m.Title, player.DeepLink(base, m.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&publicURL, "public-url", "", "Base URL for the link (default: --url)")
	return cmd
}
