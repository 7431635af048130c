package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/store"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import leads from a CSV file into the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := store.NewCSV(importCSVPath).LoadLeads(ctx)
		if err != nil {
			return eris.Wrapf(err, "read csv %s", importCSVPath)
		}
		if len(leads) == 0 {
			return eris.Errorf("no leads found in %s", importCSVPath)
		}

		for _, lead := range leads {
			if err := lead.Validate(); err != nil {
				return eris.Wrapf(err, "invalid lead %d", lead.ID)
			}
		}

		if err := st.SaveLeads(ctx, leads); err != nil {
			return eris.Wrap(err, "save leads")
		}

		zap.L().Info("import complete",
			zap.Int("leads", len(leads)),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
