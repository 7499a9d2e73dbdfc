/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getCmd is a thin HTTP client against a running "freyjatree serve"
// instance's GET /api/v1/kv/{key}, matching FreyjaDB's own get command
// in shape but no longer touching a store directly: the CLI and the
// tree it queries are always different processes here.
var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Query a key from a running freyjatree serve instance",
	Long: `Query a key's value from a running FreyjaTree server.

Example:
  freyjatree get mykey`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd)
		if err != nil {
			return err
		}
		value, err := client.query(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
