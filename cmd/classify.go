package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	classifyLeadID int
	classifyReply  string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify an email reply and update the lead's status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if classifyReply == "" {
			return eris.New("reply text is required (--reply)")
		}

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lead, err := env.Engine.ClassifyReply(ctx, classifyLeadID, classifyReply)
		if err != nil {
			return eris.Wrapf(err, "classify reply for lead %d", classifyLeadID)
		}

		fmt.Printf("Lead %d (%s): category=%s status=%s\n",
			lead.ID, lead.Name, lead.ResponseCategory, lead.Status)
		return nil
	},
}

func init() {
	classifyCmd.Flags().IntVar(&classifyLeadID, "id", 0, "lead id (required)")
	classifyCmd.Flags().StringVar(&classifyReply, "reply", "", "reply text to classify (required)")
	_ = classifyCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(classifyCmd)
}
