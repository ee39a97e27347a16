package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userInput service.CreateUserInput

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
			users := service.NewUserService(repository.NewStore(db), nil, paging(cfg))
			u, err := users.CreateUser(ctx, userInput)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", u.ID, u.Username)
			return nil
		})
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userInput.Email, "email", "", "Email address")
	f.StringVar(&userInput.Username, "username", "", "Username")
	f.StringVar(&userInput.FirstName, "first-name", "", "First name")
	f.StringVar(&userInput.LastName, "last-name", "", "Last name")
	f.StringVar(&userInput.Password, "password", "", "Password (min 8 characters)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
