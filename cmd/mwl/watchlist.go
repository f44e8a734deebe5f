package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/source"
)

func cleanIDs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		for _, p := range strings.Split(a, ",") {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *cli) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>...",
		Short: "Add coins to the watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range cleanIDs(args) {
				if c.app.store.Contains(id) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already in the watchlist\n", id)
					continue
				}
				c.app.store.Add(cmd.Context(), id)
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", id)
			}
			return nil
		},
	}
}

func (c *cli) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove coins from the watchlist",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := cleanIDs(args)
			c.app.store.RemoveMany(cmd.Context(), ids)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", strings.Join(ids, ", "))
			return nil
		},
	}
}

func (c *cli) newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a coin if missing, remove it otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := cleanIDs(args)
			if len(ids) != 1 {
				return fmt.Errorf("toggle takes a single id")
			}
			if c.app.store.Toggle(cmd.Context(), ids[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", ids[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", ids[0])
			}
			return nil
		},
	}
}

func (c *cli) newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every coin from the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.app.store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "watchlist is already empty")
				return nil
			}
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to clear your entire watchlist (%d coins)? [y/N] ", c.app.store.Len())
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
			}
			c.app.store.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "watchlist cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (c *cli) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge ids from a JSON or YAML file into the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			added, err := source.Import(cmd.Context(), c.app.store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d new coins (%d total)\n", added, c.app.store.Len())
			return nil
		},
	}
}

func (c *cli) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file|-]",
		Short: "Write the watchlist as a JSON array",
		Long:  "Write the watchlist as a JSON array. The default file name is crypto-watchlist-YYYY-MM-DD.json; use - for stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := c.app.store.IDs()
			path := source.ExportFileName(time.Now())
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				return source.Export(cmd.OutOrStdout(), ids)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := source.Export(f, ids); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d coins to %s\n", len(ids), path)
			return nil
		},
	}
}

func (c *cli) newShareCmd() *cobra.Command {
	var origin string
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link that carries the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if origin == "" {
				origin = c.app.cfg.Share.Origin
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.app.store.ShareURL(origin))
			return nil
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "base URL of the link (default share.origin)")
	return cmd
}

func (c *cli) newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <url>",
		Short: "Replace the watchlist with the one carried by a shared link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := c.app.store.SeedFromURL(cmd.Context(), args[0]); !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no watchlist found in link; nothing changed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d coins from link\n", c.app.store.Len())
			return nil
		},
	}
}
