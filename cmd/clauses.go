package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	clausesEnrich  bool
	clausesPersist bool
	clausesUndo    bool
)

var clausesCmd = &cobra.Command{
	Use:   "clauses <document-id>",
	Short: "Run clause risk analysis on a document",
	Long: `Analyze a document's clauses and print them with risk levels. A persisted
clause set is loaded instead of re-analyzing when one exists. When the
document's text has not been extracted yet, processing is triggered and the
analysis retried once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, orchestrator, controller := newController()
		if err := selectDocument(cmd, client, controller, args[0]); err != nil {
			return err
		}
		analysis := controller.Analysis()
		ctx := controller.SelectionContext()

		if clausesUndo {
			if !analysis.CheckPersisted(ctx) {
				fmt.Println(headerStyle.Render("No persisted clauses to undo"))
				return nil
			}
			if err := analysis.Undo(ctx, analysis.PersistedIDs()); err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Persisted clauses removed"))
			return nil
		}

		clauses, err := analysis.LoadOrAnalyzeWithRecovery(ctx, orchestrator)
		if err != nil {
			return err
		}
		if clausesEnrich {
			clauses = analysis.EnrichAll(ctx)
		}

		source := "fresh analysis"
		if analysis.Persisted() {
			source = "persisted"
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("%d clause(s) (%s)", len(clauses), source)))
		fmt.Println()

		for i, clause := range clauses {
			fmt.Printf("%d. [%s] %s\n", i+1, renderRisk(clause.Risk), clause.ClauseText)
			if len(clause.Highlights) > 0 {
				fmt.Println(idStyle.Render("   keywords: " + strings.Join(clause.Highlights, ", ")))
			}
			for _, s := range clause.Scenarios {
				fmt.Printf("   what-if: %s - %s\n", s.Title, s.Description)
			}
			for _, r := range clause.LegalReferences {
				fmt.Printf("   ref: %s (%s)\n", r.Title, r.Citation)
			}
			fmt.Println()
		}

		if clausesPersist {
			result, err := analysis.Persist(ctx)
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("Persisted %d clause(s)", result.Count)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clausesCmd)
	clausesCmd.Flags().BoolVar(&clausesEnrich, "enrich", false, "Fetch what-if scenarios and legal references per clause")
	clausesCmd.Flags().BoolVar(&clausesPersist, "persist", false, "Persist the analyzed clauses server-side")
	clausesCmd.Flags().BoolVar(&clausesUndo, "undo", false, "Remove the persisted clause set")
}
