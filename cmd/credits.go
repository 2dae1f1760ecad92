package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/app"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/db"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos"
	creditrepo "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos/credit"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Read or set a user's lesson credit balance.",
}

var creditsGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Print a user's balance.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		return withCreditStore(func(store *creditrepo.Store) error {
			bal, err := store.GetBalance(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bal)
			return nil
		})
	},
}

var creditsSetCmd = &cobra.Command{
	Use:   "set <user-id> <balance>",
	Short: "Set a user's balance.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		balance, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || balance < 0 {
			return fmt.Errorf("balance must be a non-negative integer, got %q", args[1])
		}
		return withCreditStore(func(store *creditrepo.Store) error {
			if err := store.SetBalance(cmd.Context(), userID, balance); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", userID, balance)
			return nil
		})
	},
}

func withCreditStore(fn func(*creditrepo.Store) error) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()
	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}
	dbSvc, err := db.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer dbSvc.Close()
	return fn(creditrepo.NewStore(repos.New(dbSvc.DB(), log).CreditBalance))
}

func init() {
	creditsCmd.AddCommand(creditsGetCmd, creditsSetCmd)
	rootCmd.AddCommand(creditsCmd)
}
