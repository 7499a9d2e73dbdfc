/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd is a thin HTTP client against DELETE /api/v1/kv/{key}.
var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a key from a running freyjatree serve instance",
	Long: `Remove a key from a running FreyjaTree server.

Example:
  freyjatree delete mykey`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd)
		if err != nil {
			return err
		}
		removed, err := client.remove(args[0])
		if err != nil {
			return err
		}
		if removed {
			fmt.Println("removed")
		} else {
			fmt.Println("not present")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
