package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func clientCmd() *cobra.Command {
	var clientID int64

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Recommend a product for a single client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := a.engine.Recommend(ctx, clientID)
			if err != nil {
				return err
			}

			fmt.Printf("Client %d → %s (%s tier), estimated benefit %.2f KZT\n",
				rec.ClientID, rec.Product.DisplayName(), rec.Tier, rec.Benefit)
			if rec.Notification != "" {
				fmt.Printf("Push: %s\n", rec.Notification)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&clientID, "id", 0, "client id to score")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
