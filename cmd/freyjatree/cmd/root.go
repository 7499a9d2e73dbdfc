/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "freyjatree",
	Short: "FreyjaTree - a concurrent, in-memory ordered key-value store",
	Long: `FreyjaTree is an in-memory key-value store backed by a
hand-over-hand locked binary search tree: every lookup, insert, and
delete holds only the locks it needs on the path it walks, so
operations in disjoint subtrees proceed concurrently.

Run "freyjatree serve" to start the long-lived process that holds the
tree and fronts it with an HTTP API, or "freyjatree exec" to drive the
tree directly from a script or stdin for one process's lifetime. The
get/put/delete subcommands are thin HTTP clients against a running
"serve" instance.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to
// happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("addr", "http://127.0.0.1:8080", "Address of a running freyjatree serve instance")
	rootCmd.PersistentFlags().String("api-key", "", "Client API key sent as X-API-Key by get/put/delete (serve takes its key from the config file)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
}
