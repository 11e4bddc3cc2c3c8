package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AndrewChmutov/big-medicine/internal/dataset"
	"github.com/AndrewChmutov/big-medicine/pkg/database"
)

var (
	flagDatasetMin  int
	flagDatasetMax  int
	flagDatasetTake int
)

var prepareDatasetCmd = &cobra.Command{
	Use:   "prepare-dataset source [target]",
	Short: "Add a column representing the number of present medicines",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		target := source
		if len(args) == 2 {
			target = args[1]
		} else {
			log.Info().Str("target", target).Msg("reusing source for target")
		}
		return dataset.Prepare(source, target, flagDatasetMin, flagDatasetMax, flagDatasetTake)
	},
}

var datasetToCassandraCmd = &cobra.Command{
	Use:   "dataset-to-cassandra prepared-dataset",
	Short: "Bulk-load a prepared dataset into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log.Info().Strs("points", cfg.Cassandra.Points).Msg("connecting to the cluster")
		session, err := database.NewSession(cmd.Context(), cfg.Cassandra, 3)
		if err != nil {
			return err
		}
		defer session.Close()

		return dataset.Upload(cmd.Context(), session, cfg.Cassandra, args[0])
	},
}

func init() {
	prepareDatasetCmd.Flags().IntVar(&flagDatasetMin, "min", 0, "minimum generated count")
	prepareDatasetCmd.Flags().IntVar(&flagDatasetMax, "max", 1000, "maximum generated count")
	prepareDatasetCmd.Flags().IntVar(&flagDatasetTake, "take", 1000, "number of rows to keep")
	rootCmd.AddCommand(prepareDatasetCmd, datasetToCassandraCmd)
}
