package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// the config file shared by every command
var configFile string

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Bookshelf is a GraphQL api over a small catalog of books, users and markets.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "a json, yaml or toml file with the server configuration")
}

// start the bookshelf executable
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
