package main

import (
	"github.com/spf13/cobra"
)

var reserveCmd = &cobra.Command{
	Use:   "reserve medicine,count [medicine,count ...]",
	Short: "Reserve medicines",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		entries, err := parseEntries(args)
		if err != nil {
			return err
		}

		item, err := newClient(cfg).Reserve(cmd.Context(), cfg.Account.Name, entries)
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update id medicine,count [medicine,count ...]",
	Short: "Update a reservation",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		entries, err := parseEntries(args[1:])
		if err != nil {
			return err
		}

		item, err := newClient(cfg).Update(cmd.Context(), args[0], entries)
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

func init() {
	rootCmd.AddCommand(reserveCmd, updateCmd)
}
