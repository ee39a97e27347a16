package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/auth"
)

var (
	tokenEmail    string
	tokenPassword string
	tokenUserID   int64
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an access token for a user",
	Long:  "token signs an access token with auth.secret, either for --user-id or after checking --email/--password.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 && tokenEmail == "" {
			return errors.New("either --user-id or --email is required")
		}
		ctx := cmd.Context()
		return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
			store := repository.NewStore(db)
			id := tokenUserID
			if id <= 0 {
				u, err := service.NewUserService(store, nil, paging(cfg)).Authenticate(ctx, tokenEmail, tokenPassword)
				if err != nil {
					return err
				}
				id = u.ID
			} else if _, err := store.Users.GetByID(ctx, id); err != nil {
				return fmt.Errorf("user %d: %w", id, err)
			}

			tok, err := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL).Issue(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		})
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "User email")
	tokenCmd.Flags().StringVar(&tokenPassword, "password", "", "User password")
	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "Issue for this user id without a password check")
	rootCmd.AddCommand(tokenCmd)
}
