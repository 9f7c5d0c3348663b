package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func thresholdsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thresholds",
		Short: "Print the population thresholds for the current data snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.Prepare(ctx); err != nil {
				return err
			}

			t := a.engine.Thresholds()
			fmt.Printf("balance p75:   %15.2f KZT\n", t.BalanceMid)
			fmt.Printf("balance p85:   %15.2f KZT\n", t.BalanceHigh)
			fmt.Printf("balance mean:  %15.2f KZT\n", t.BalanceMean)
			fmt.Printf("atm count p75: %15.2f withdrawals / 3m\n", t.ATMFrequency)
			return nil
		},
	}
}
