package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/pipeline"
)

var runProduct string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the campaign pipeline over all stored leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		runID, err := env.Engine.Start(runProduct)
		if err != nil {
			return eris.Wrap(err, "start campaign")
		}
		zap.L().Info("campaign started", zap.String("run_id", runID))

		// The engine runs in the background; poll until it finishes.
		var last string
		for {
			snap := env.Engine.Status()
			if snap.Message != last {
				fmt.Printf("[%d/%d] %s\n", snap.Processed, snap.TotalLeads, snap.Message)
				last = snap.Message
			}
			if snap.Status == pipeline.RunCompleted {
				fmt.Printf("Contacted %d of %d leads.\n", snap.Contacted, snap.TotalLeads)
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&runProduct, "product", "", "product description or catalog name for email drafting")
	rootCmd.AddCommand(runCmd)
}
