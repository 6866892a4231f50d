package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <request>",
	Short: "Run a single query and print the JSON response",
	Long: `Runs one query, either a bare command name or a JSON envelope, and prints
the response.

Examples:
  lootctl query getVersion
  lootctl query '{"name":"getConflictingPlugins","args":["Skyrim.esm"]}'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, s, err := newRouter()
		if err != nil {
			return err
		}
		defer saveSession(s)

		resp := router.Respond(strings.Join(args, " "))
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if resp.Error != nil {
			return resp.Error
		}
		if resp.Unhandled {
			return fmt.Errorf("unknown query: %s", strings.Join(args, " "))
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer queries read from stdin",
	Long: `Reads one query per line from stdin and writes one JSON response per line
to stdout. Queries are handled in order. Responses look like:

  {"result": ...}
  {"error": {"code": -1, "message": "..."}}
  {"unhandled": true}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		router, s, err := newRouter()
		if err != nil {
			return err
		}
		defer saveSession(s)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		getLogger().Info("Serving queries on stdin", "game", s.Settings.LastGame)
		return router.Serve(ctx, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
}
