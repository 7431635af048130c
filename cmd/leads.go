package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads",
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

		if len(leads) == 0 {
			fmt.Println("No leads stored.")
			return nil
		}

		fmt.Printf("%-5s %-25s %-30s %-20s %-8s %-6s %-12s\n",
			"ID", "NAME", "EMAIL", "COMPANY", "PRIO", "SCORE", "STATUS")
		for _, l := range leads {
			score := "-"
			if l.PriorityScore != 0 {
				score = fmt.Sprintf("%d", l.PriorityScore)
			}
			prio := string(l.Priority)
			if prio == "" {
				prio = "-"
			}
			fmt.Printf("%-5d %-25s %-30s %-20s %-8s %-6s %-12s\n",
				l.ID, l.Name, l.Email, l.Company, prio, score, l.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(leadsCmd)
}
