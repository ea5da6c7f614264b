package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	bookshelf "github.com/alecaivazis/graphql-bookshelf"
	gql "github.com/alecaivazis/graphql-bookshelf/graphql"
)

var schemaTypes bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the type definitions of the api",
	RunE:  PrintSchema,
}

func init() {
	schemaCmd.Flags().BoolVarP(&schemaTypes, "types", "t", false, "list the types and their fields instead of the raw definitions")

	rootCmd.AddCommand(schemaCmd)
}

// PrintSchema writes the schema to the output of the command
func PrintSchema(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if !schemaTypes {
		fmt.Fprintln(out, strings.TrimSpace(bookshelf.Schema))
		return nil
	}

	schema, err := bookshelf.LoadSchema()
	if err != nil {
		return err
	}

	for _, description := range gql.Describe(schema) {
		if len(description.Fields) == 0 {
			fmt.Fprintf(out, "%s (%s)\n", description.Name, description.Kind)
			continue
		}
		fmt.Fprintf(out, "%s (%s): %s\n", description.Name, description.Kind, strings.Join(description.Fields, ", "))
	}

	return nil
}
