package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/okynos/localchat/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "localchat",
	Short: "A terminal client for locally hosted AI services",
	Long:  `LocalChat is a terminal client for chatting with locally hosted AI services and managing their containerized runtime.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the chat application
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}
