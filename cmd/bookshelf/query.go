package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	gql "github.com/alecaivazis/graphql-bookshelf/graphql"
)

var queryURL string
var queryVariables string
var queryOperationName string

// newQueryer builds the queryer the query command sends its operation through
var newQueryer = func(url string) gql.Queryer {
	return gql.NewNetworkQueryer(url)
}

var queryCmd = &cobra.Command{
	Use:   "query [document]",
	Short: "Send an operation to a running api and print the data",
	Args:  cobra.ExactArgs(1),
	RunE:  RunQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryURL, "url", "u", "http://localhost:4000/graphql", "the graphql endpoint to send the operation to")
	queryCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "a json object with the variables of the operation")
	queryCmd.Flags().StringVarP(&queryOperationName, "operation", "o", "", "the name of the operation to execute")

	rootCmd.AddCommand(queryCmd)
}

// RunQuery sends the document to the api and writes the data of the response as indented json
func RunQuery(cmd *cobra.Command, args []string) error {
	input := &gql.QueryInput{
		Query:         args[0],
		OperationName: queryOperationName,
	}

	if queryVariables != "" {
		if err := json.Unmarshal([]byte(queryVariables), &input.Variables); err != nil {
			return fmt.Errorf("variables must be a json object: %w", err)
		}
	}

	result := map[string]interface{}{}
	queryErr := newQueryer(queryURL).Query(context.Background(), input, &result)

	// a response with errors can still have data worth showing
	if len(result) > 0 {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
	}

	return queryErr
}
