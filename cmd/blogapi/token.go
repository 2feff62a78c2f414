package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/svc/authsvc"
)

func newTokenCmd(cfg *Config) *cobra.Command {
	var (
		subject string
		roles   []string
	)

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a credential without logging in",
		Long:  `Issues a credential for --subject signed with the configured key. The subject need not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subject == "" {
				return fmt.Errorf("%w: --subject", errMissingFlag)
			}

			authSvc, err := authsvc.NewCredentialService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("new credential service: %w", err)
			}

			s := domain.Subject{Name: subject}
			for _, r := range roles {
				s.Roles = append(s.Roles, domain.Role(r))
			}

			cred, err := authSvc.Issue(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("issue: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cred.Token)

			return nil
		},
	}

	issueCmd.Flags().StringVar(&subject, "subject", "", "subject name")
	issueCmd.Flags().StringSliceVar(&roles, "role", []string{string(domain.RoleUser)}, "granted roles")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Credential commands",
	}
	tokenCmd.AddCommand(issueCmd)

	return tokenCmd
}
