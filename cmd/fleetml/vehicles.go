package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/pkg/database/queries"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

func newVehiclesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Show the monitoring status stored for vehicles",
	}
	cmd.AddCommand(newVehiclesListCmd(root), newVehiclesShowCmd(root))
	return cmd
}

func newVehiclesListCmd(root *rootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles with the given status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := openRuntime(cfg, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			vehicles, err := queries.NewVehicleRepository(rt.db.DB).ListByStatus(context.Background(), status)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VEHICLE\tSTATUS\tUPDATED")
			for _, v := range vehicles {
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Status, v.UpdatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", queries.VehicleStatusMonitoring, "idle or monitoring")
	return cmd
}

func newVehiclesShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <vehicle-id>",
		Short: "Show the stored status of one vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateVehicleID(args[0]); err != nil {
				return err
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := openRuntime(cfg, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			v, err := queries.NewVehicleRepository(rt.db.DB).GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tsince %s\n", v.ID, v.Status, v.UpdatedAt.Format(time.RFC3339))
			return nil
		},
	}
}
