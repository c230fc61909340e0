package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"moim-app-go/internal/app"
	"moim-app-go/internal/state"
	"moim-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

type loginOptions struct {
	Email        string
	Password     string
	AccessToken  string
	RefreshToken string
}

func (o *loginOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Email, "email", "", "account email")
	cmd.Flags().StringVar(&o.Password, "password", "", "account password")
	cmd.Flags().StringVar(&o.AccessToken, "access-token", "", "access token from a social login redirect")
	cmd.Flags().StringVar(&o.RefreshToken, "refresh-token", "", "refresh token from a social login redirect")
	cmd.MarkFlagsRequiredTogether("email", "password")
	cmd.MarkFlagsOneRequired("email", "access-token")
	cmd.MarkFlagsMutuallyExclusive("email", "access-token")
}

func (o loginOptions) login(ctx context.Context, session *state.Session) error {
	if o.AccessToken != "" {
		_, err := session.CompleteSocialLogin(ctx, o.AccessToken, o.RefreshToken)
		return err
	}
	_, err := session.LoginWithPassword(ctx, o.Email, o.Password)
	return err
}

// withSession boots the app, signs in and hands the state containers to fn.
func withSession(ctx context.Context, log logger.Logger, opts loginOptions, fn func(*state.App) error) (err error) {
	application, err := app.New(ctx, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}
	defer func() {
		err = errors.Join(err, application.Close())
	}()

	st := application.State()
	defer st.Close()

	if err := st.Init(ctx); err != nil {
		return err
	}
	if err := opts.login(ctx, st.Session); err != nil {
		return err
	}
	defer func() {
		if logoutErr := st.Session.Logout(ctx); logoutErr != nil {
			log.Warn("auth: logout failed", "err", logoutErr)
		}
	}()

	return fn(st)
}

func newLoginCommand(log logger.Logger) *cobra.Command {
	var provider string
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a social login, or finish one with the redirect tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			application, err := app.New(cmd.Context(), log)
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}
			defer func() {
				err = errors.Join(err, application.Close())
			}()

			st := application.State()
			defer st.Close()
			if err := st.Init(cmd.Context()); err != nil {
				return err
			}

			if opts.AccessToken == "" {
				authorizeURL, err := st.Session.LoginWithSocial(cmd.Context(), provider)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), authorizeURL)
				return nil
			}

			principal, err := st.Session.CompleteSocialLogin(cmd.Context(), opts.AccessToken, opts.RefreshToken)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), principal)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "google", "social provider (google, kakao, apple)")
	cmd.Flags().StringVar(&opts.AccessToken, "access-token", "", "access token from the login redirect")
	cmd.Flags().StringVar(&opts.RefreshToken, "refresh-token", "", "refresh token from the login redirect")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMoimsCommand(log logger.Logger) *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "moims",
		Short: "List the moims you created or joined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), log, opts, func(st *state.App) error {
				moims, err := st.Moims.LoadMoims(cmd.Context())
				if err != nil {
					return err
				}
				for _, m := range moims {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\n", m.ID, m.InviteCode, m.Title, m.ParticipantCount)
				}
				return nil
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newCreateMoimCommand(log logger.Logger) *cobra.Command {
	var opts loginOptions
	var description string
	cmd := &cobra.Command{
		Use:   "create-moim <title>",
		Short: "Create a moim and print its invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), log, opts, func(st *state.App) error {
				created, err := st.Moims.CreateMoim(cmd.Context(), args[0], description)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), created)
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&description, "description", "", "moim description")
	return cmd
}

func newJoinMoimCommand(log logger.Logger) *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "join-moim <invite-code>",
		Short: "Join a moim by invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), log, opts, func(st *state.App) error {
				joined, err := st.Moims.JoinMoimByInviteCode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), joined)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newRespondCommand(log logger.Logger) *cobra.Command {
	var opts loginOptions
	var comment string
	cmd := &cobra.Command{
		Use:   "respond <mannam-id> <available|unavailable|maybe>",
		Short: "Record your availability for a mannam",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), log, opts, func(st *state.App) error {
				if _, err := st.Mannams.LoadMannam(cmd.Context(), args[0]); err != nil {
					return err
				}
				if _, err := st.Mannams.SubmitMannamResponse(cmd.Context(), args[0], args[1], comment); err != nil {
					return err
				}
				counts := st.Mannams.ResponseCounts().Get()
				fmt.Fprintf(cmd.OutOrStdout(), "available=%d unavailable=%d maybe=%d\n", counts.Available, counts.Unavailable, counts.Maybe)
				return nil
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&comment, "comment", "", "optional note")
	return cmd
}
