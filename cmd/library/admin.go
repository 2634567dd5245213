package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
	"github.com/bookkeep/library-records/internal/core/service"
	"github.com/bookkeep/library-records/pkg/logger"
)

func newAdminCmd(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	admin.AddCommand(newAdminCreateCmd(a))
	return admin
}

func newAdminCreateCmd(a *app) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a member with the admin role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			db, store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			auth, err := service.NewAuthService(store, service.AuthConfig{
				Secret:     a.cfg.Auth.JWTSecret,
				Algorithm:  a.cfg.Auth.JWTAlgorithm,
				TokenTTL:   a.cfg.Auth.TokenTTL,
				BcryptCost: a.cfg.Auth.BcryptCost,
			}, logger.Component("auth"))
			if err != nil {
				return err
			}

			m, err := auth.Register(cmd.Context(), ports.RegisterInput{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     domain.RoleAdmin,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q with id %d\n", m.Name, m.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword prompts twice on a terminal. Piped input is read as a single line.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprint(prompt, "Repeat password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		if string(first) != string(second) {
			return "", errors.New("passwords do not match")
		}
		return checkPassword(string(first))
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return checkPassword(strings.TrimRight(line, "\r\n"))
}

func checkPassword(p string) (string, error) {
	if p == "" {
		return "", errors.New("password must not be empty")
	}
	if len(p) > domain.MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	return p, nil
}
