package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/internal/persistence"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

func newModelsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect or clear the persisted models",
	}
	cmd.AddCommand(newModelsListCmd(root), newModelsResetCmd(root))
	return cmd
}

func newModelsListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [domain...]",
		Short: "Show which models are stored and their architecture",
		RunE: func(cmd *cobra.Command, args []string) error {
			domains, err := parseDomains(args)
			if err != nil {
				return err
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := openRuntime(cfg, cfg.Store.Type == "postgres")
			if err != nil {
				return err
			}
			defer rt.Close()

			engine := rt.newEngine()
			ctx := context.Background()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DOMAIN\tKEY\tSTORED\tLAYERS\tLEARNING RATE")
			for _, domain := range domains {
				key := engine.Key(domain)
				payload, err := rt.store.Get(ctx, key)
				if err != nil {
					fmt.Fprintf(w, "%s\t%s\tno\t-\t-\n", domain, key)
					continue
				}
				state, err := persistence.Decode(payload)
				if err != nil {
					fmt.Fprintf(w, "%s\t%s\tcorrupt\t-\t-\n", domain, key)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\tyes\t%v\t%g\n", domain, key, state.Layers, state.LearningRate)
			}
			return w.Flush()
		},
	}
}

func newModelsResetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored model so the next start retrains",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := openRuntime(cfg, cfg.Store.Type == "postgres")
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.newEngine().ResetStore(context.Background()); err != nil {
				return fmt.Errorf("failed to reset models: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stored models deleted")
			return nil
		},
	}
}

// parseDomains maps names to domains. No names means every domain.
func parseDomains(names []string) ([]models.Domain, error) {
	if len(names) == 0 {
		return models.Domains, nil
	}
	out := make([]models.Domain, 0, len(names))
	for _, name := range names {
		d, ok := models.ParseDomain(name)
		if !ok {
			return nil, fmt.Errorf("unknown domain %q", name)
		}
		out = append(out, d)
	}
	return out, nil
}
