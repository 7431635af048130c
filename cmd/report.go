package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/report"
)

var reportXLSXPath string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a campaign report from the current lead set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.LoadLeads(ctx)
		if err != nil {
			return eris.Wrap(err, "load leads")
		}

		path, err := report.NewGenerator(cfg.Report.Dir).Save(leads)
		if err != nil {
			return eris.Wrap(err, "save report")
		}
		fmt.Printf("Report written to %s\n", path)

		if reportXLSXPath != "" {
			if err := report.ExportXLSX(leads, reportXLSXPath); err != nil {
				return eris.Wrap(err, "export xlsx")
			}
			fmt.Printf("Spreadsheet written to %s\n", reportXLSXPath)
		}

		zap.L().Info("report generated",
			zap.Int("leads", len(leads)),
			zap.String("path", path),
		)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportXLSXPath, "xlsx", "", "also export the lead set as a spreadsheet at this path")
	rootCmd.AddCommand(reportCmd)
}
