package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gotodo/core/cmd/api/commands"
)

// @title Todo API
// @version 1.0
// @description Multi-tenant task management backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "gotodo",
		Short: "Todo API Server",
		Long:  `gotodo is a multi-tenant task management backend with tags, categories and ownership-scoped task lists.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
