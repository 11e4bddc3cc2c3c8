package main

import (
	"github.com/spf13/cobra"
)

var queryByIDCmd = &cobra.Command{
	Use:   "query-by-id id",
	Short: "Retrieve a single reservation by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		resp, err := newClient(cfg).QueryByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var queryAccountCmd = &cobra.Command{
	Use:   "query-account",
	Short: "Retrieve the reservations of the configured account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		resp, err := newClient(cfg).QueryByAccount(cmd.Context(), cfg.Account.Name)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var queryAllCmd = &cobra.Command{
	Use:   "query-all",
	Short: "Retrieve all reservations in the system",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		resp, err := newClient(cfg).QueryAll(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var medicineCmd = &cobra.Command{
	Use:   "medicine name",
	Short: "Retrieve one catalog row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		resp, err := newClient(cfg).Medicine(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop and recreate the working keyspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		item, err := newClient(cfg).Clean(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var directCmd = &cobra.Command{
	Use:   "direct query",
	Short: "Execute a raw store query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		resp, err := newClient(cfg).Direct(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(queryByIDCmd, queryAccountCmd, queryAllCmd, medicineCmd, cleanCmd, directCmd)
}
