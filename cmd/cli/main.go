package main

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wb-tools/seller-atlas/pkg/services/analysis"
	"github.com/wb-tools/seller-atlas/pkg/services/cabinet"
	"github.com/wb-tools/seller-atlas/pkg/services/expense"
	"github.com/wb-tools/seller-atlas/pkg/services/reconcile"
	"github.com/wb-tools/seller-atlas/pkg/services/wbclient"
)

type analyzeCmd struct {
	cabinetsPath string
	refDataPath  string
	profile      string
	dateFrom     string
	dateTo       string
}

func main() {
	ac := &analyzeCmd{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one expense analysis and print the reconciliation verdict",
		RunE:  ac.run,
	}

	usr, _ := user.Current()
	defaultCabinets := fmt.Sprintf("%s/.wbcabinets", usr.HomeDir)

	cmd.Flags().StringVarP(&ac.cabinetsPath, "cabinets", "c", defaultCabinets, "Path to the cabinet profiles file")
	cmd.Flags().StringVarP(&ac.refDataPath, "refdata", "r", "refdata.yaml", "Path to the reference data file")
	cmd.Flags().StringVar(&ac.profile, "profile", "", "Cabinet profile name (default: first active)")
	cmd.Flags().StringVar(&ac.dateFrom, "from", "", "Start date YYYY-MM-DD (default: 30 days ago)")
	cmd.Flags().StringVar(&ac.dateTo, "to", "", "End date YYYY-MM-DD (default: today)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (ac *analyzeCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	ctx, cancel := context.WithTimeout(logger.WithContext(cmd.Context()), 60*time.Second)
	defer cancel()

	registry, err := cabinet.NewRegistry(ac.cabinetsPath)
	if err != nil {
		return err
	}
	cab, err := registry.GetCabinet(ctx, ac.profile)
	if err != nil {
		return err
	}

	refData, err := expense.LoadReferenceData(ac.refDataPath)
	if err != nil {
		return err
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)
	if ac.dateFrom != "" {
		if from, err = time.Parse("2006-01-02", ac.dateFrom); err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
	}
	if ac.dateTo != "" {
		if to, err = time.Parse("2006-01-02", ac.dateTo); err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}

	service := analysis.NewService(func(token string) analysis.Sources {
		client, err := wbclient.New(wbclient.Config{Token: token})
		if err != nil {
			panic(err)
		}
		return analysis.Sources{Orders: client, Tariffs: client, Settlements: client}
	}, refData, reconcile.NewEngine(reconcile.DefaultThresholds()))

	result, err := service.RunCompleteAnalysis(ctx, cab, from, to)
	if err != nil {
		return err
	}

	printSummary(result)
	return nil
}

func printSummary(result *analysis.Result) {
	a := result.Analytics

	fmt.Printf("Period %s to %s, cabinet analysis of %d orders\n\n",
		result.Period.From.Format("2006-01-02"), result.Period.To.Format("2006-01-02"), a.TotalOrders)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Metric", "Value")
	table.Append("Ordered", fmt.Sprintf("%.0f", a.OrderedAmount))
	table.Append("Redeemed", fmt.Sprintf("%.0f", a.RedeemedAmount))
	table.Append("Purchase rate", fmt.Sprintf("%.1f%%", a.PurchaseRate))
	table.Append("Return rate", fmt.Sprintf("%.1f%%", a.ReturnRate))
	table.Append("Commission", fmt.Sprintf("%.0f", a.Expenses.Commission.Total))
	table.Append("Logistics", fmt.Sprintf("%.0f (avg KTR %.2f)", a.Expenses.Logistics.Total, a.Expenses.Logistics.AverageKtr))
	table.Append("Storage", fmt.Sprintf("%.0f", a.Expenses.Storage))
	table.Append("Acceptance", fmt.Sprintf("%.0f", a.Expenses.Acceptance))
	table.Append("Penalties", fmt.Sprintf("%.0f", a.Expenses.Penalties))
	table.Append("Total expenses", fmt.Sprintf("%.0f", a.Expenses.Total))
	table.Append("To transfer", fmt.Sprintf("%.0f", a.FinalTransferAmount))
	table.Render()

	if result.Reconciliation == nil {
		fmt.Println("\nReconciliation: settlement report unavailable for this period")
		return
	}

	r := result.Reconciliation
	fmt.Printf("\nReconciliation: %s (accuracy %.1f%%)\n", r.MatchQuality, r.OverallAccuracy)
	if len(r.SignificantDiscrepancies) > 0 {
		dev := tablewriter.NewWriter(os.Stdout)
		dev.Header("Field", "Diff", "Percent")
		for _, d := range r.SignificantDiscrepancies {
			dev.Append(d.Field, fmt.Sprintf("%.2f", d.Diff), fmt.Sprintf("%.1f%%", d.Percent))
		}
		dev.Render()
	}

	if m := result.Meta; m.SkippedRecords > 0 || m.DegradedRecords > 0 {
		fmt.Printf("\nWarning: %d records skipped, %d degraded to neutral KTR\n",
			m.SkippedRecords, m.DegradedRecords)
	}
}
