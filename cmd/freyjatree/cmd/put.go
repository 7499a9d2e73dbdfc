/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// putCmd is a thin HTTP client against PUT /api/v1/kv/{key}, which maps
// onto the tree's add operation: it never overwrites an existing key.
var putCmd = &cobra.Command{
	Use:   "put <name> <value>",
	Short: "Add a key/value pair on a running freyjatree serve instance",
	Long: `Add a key/value pair to a running FreyjaTree server. Adding an
existing key is a no-op; the server reports "already present" rather
than overwriting it.

Example:
  freyjatree put mykey myvalue`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd)
		if err != nil {
			return err
		}
		result, err := client.add(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
