package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go-pm/internal/features/taxonomy"
	"go-pm/pkg/pmclient"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// loadTaxonomy fetches the server's table. When the server cannot be reached
// the embedded default is used so the desk still resolves roles.
func loadTaxonomy(ctx context.Context, client *pmclient.Client, log *zap.Logger) *taxonomy.Taxonomy {
	tax, err := fetchTaxonomy(ctx, client)
	if err != nil {
		log.Warn("Using built-in taxonomy", zap.Error(err))
		return taxonomy.Default()
	}
	return tax
}

// commandTaxonomy is loadTaxonomy for commands that do not otherwise need the
// server, so a missing session also falls back to the embedded table.
func commandTaxonomy(ctx context.Context, log *zap.Logger) *taxonomy.Taxonomy {
	client, err := newClient()
	if err != nil {
		log.Warn("Using built-in taxonomy", zap.Error(err))
		return taxonomy.Default()
	}
	return loadTaxonomy(ctx, client, log)
}

func fetchTaxonomy(ctx context.Context, client *pmclient.Client) (*taxonomy.Taxonomy, error) {
	raw, err := client.GetTaxonomy(ctx)
	if err != nil {
		return nil, err
	}
	var doc taxonomy.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "decode taxonomy")
	}
	tax, err := taxonomy.New(doc)
	if err != nil {
		return nil, eris.Wrap(err, "invalid taxonomy from server")
	}
	return tax, nil
}

func taxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "taxonomy", Short: "Inspect the workflow taxonomy"}
	cmd.AddCommand(taxonomyShowCmd())
	cmd.AddCommand(taxonomyResolveCmd())
	return cmd
}

func taxonomyShowCmd() *cobra.Command {
	var phase string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the phase, section and line item table",
		RunE: func(cmd *cobra.Command, args []string) error {
			tax := commandTaxonomy(cmd.Context(), newLogger())
			doc := tax.Document()
			if viper.GetBool("json") {
				return printJSON(doc)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Phase", "Step", "Section", "Line item", "Role"})
			for _, p := range doc.Phases {
				if phase != "" && p.Name != tax.PhaseName(phase) {
					continue
				}
				for _, e := range p.Steps {
					t.AppendRow(table.Row{p.Name, e.StepName, e.Section, e.LineItem, e.ResponsibleRole})
				}
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "only this phase (code or name)")
	return cmd
}

func taxonomyResolveCmd() *cobra.Command {
	var phase, step string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a step name to its section, line item and role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if step == "" {
				return fmt.Errorf("--step required")
			}
			res := commandTaxonomy(cmd.Context(), newLogger()).Resolve(step, phase)
			if viper.GetBool("json") {
				return printJSON(res)
			}
			fmt.Printf("section: %s\nline item: %s\nrole: %s\n", res.Section, res.LineItem, res.ResponsibleRole)
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "phase code or name")
	cmd.Flags().StringVar(&step, "step", "", "step name")
	return cmd
}
