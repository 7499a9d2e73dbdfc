/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/freyjatree/pkg/interp"
	"github.com/ssargent/freyjatree/pkg/store"
)

// execCmd drives pkg/interp directly against a freshly created,
// process-local tree: one q/a/d/f command per line, read from a file
// argument or from stdin. This is the closest analogue in this
// repository to db_fine.c's own driver loop, and it never starts the
// HTTP front end or talks to one — exec's tree lives and dies with the
// process.
var execCmd = &cobra.Command{
	Use:   "exec [script]",
	Short: "Run q/a/d/f commands against a private, in-process tree",
	Long: `Run the spec's textual command grammar against a tree private
to this process: q <name>, a <name> <value>, d <name>, and f <filename>
(recursively re-running exec's own interpreter over another file), one
command per line.

With a script argument, commands are read from that file. With none,
commands are read from stdin, one response printed per line.

Examples:
  freyjatree exec commands.txt
  echo 'a apple red' | freyjatree exec`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv := store.NewKVStore(store.Config{})
		if err := kv.Open(); err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer kv.Close()

		in := interp.New(kv)

		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		scanner := bufio.NewScanner(r)
		out := cmd.OutOrStdout()
		for scanner.Scan() {
			resp, err := in.Execute(scanner.Text())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, resp)
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
