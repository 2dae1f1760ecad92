package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log, err := app.NewLogger()
		if err != nil {
			return err
		}
		a, err := app.New(ctx, log)
		if err != nil {
			log.Error("Failed to initialize app", "error", err)
			log.Sync()
			return err
		}
		defer a.Close()
		return a.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
