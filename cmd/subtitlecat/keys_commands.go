package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"subtitlecat/internal/keystore"
)

// readClipboard is replaced in tests.
var readClipboard = clipboard.ReadAll

func newKeysCommand(ctx *commandContext) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage Gemini API keys",
	}
	keysCmd.AddCommand(newKeysListCommand(ctx))
	keysCmd.AddCommand(newKeysAddCommand(ctx))
	keysCmd.AddCommand(newKeysRemoveCommand(ctx))
	return keysCmd
}

func (c *commandContext) openKeys() (*keystore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return keystore.Open(cfg.Paths.APIKeysFile)
}

func newKeysListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the configured keys, masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openKeys()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyTable(store.List()))
			return nil
		},
	}
}

func renderKeyTable(keys []string) string {
	if len(keys) == 0 {
		return "No API keys configured."
	}
	rows := make([][]string, 0, len(keys))
	for i, key := range keys {
		rows = append(rows, []string{strconv.Itoa(i + 1), keystore.Mask(key)})
	}
	return renderTable([]string{"#", "Key"}, rows, []columnAlignment{alignRight})
}

func newKeysAddCommand(ctx *commandContext) *cobra.Command {
	var fromClipboard bool
	cmd := &cobra.Command{
		Use:   "add [key]",
		Short: "Append a key to the rotation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			switch {
			case fromClipboard:
				text, err := readClipboard()
				if err != nil {
					return fmt.Errorf("read clipboard: %w", err)
				}
				key = text
			case len(args) == 1:
				key = args[0]
			default:
				return errors.New("pass a key or use --clipboard")
			}
			store, err := ctx.openKeys()
			if err != nil {
				return err
			}
			if err := store.Add(strings.TrimSpace(key)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d key(s))\n", keystore.Mask(strings.TrimSpace(key)), store.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "Read the key from the clipboard")
	return cmd
}

func newKeysRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <n>",
		Short: "Remove the key at position n (see `keys list`)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%q is not a key number", args[0])
			}
			store, err := ctx.openKeys()
			if err != nil {
				return err
			}
			removed, err := store.Remove(n - 1)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d key(s) left)\n", keystore.Mask(removed), store.Len())
			return nil
		},
	}
}
