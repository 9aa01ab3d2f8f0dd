package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/steadfast/idlerest/internal/config"
	"github.com/steadfast/idlerest/internal/estimate"
	"github.com/steadfast/idlerest/internal/ledger"
	"github.com/steadfast/idlerest/internal/pricing"
)

type EstimateOptions struct {
	*GlobalOptions

	Input        estimate.Input
	Variant      string
	RoundingMode string
	Company      string
	Preview      bool
	XLSXPath     string
	CSV          bool
}

func DefaultEstimateOptions(global *GlobalOptions, cfg config.Config) *EstimateOptions {
	in := estimate.Input{
		Material:      "Mild Steel",
		IdlerType:     string(pricing.Carrying),
		ProfitPercent: pricing.MinProfitPercent,
	}
	return &EstimateOptions{
		GlobalOptions: global,
		Input:         in,
		Variant:       string(estimate.Simple),
		RoundingMode:  cfg.RoundingMode,
		Company:       cfg.CompanyName,
	}
}

const estimateExample = `  idler estimate --pipe-od 114 --pipe-thickness 4 --pipe-length 600 \
    --shaft-dia 25 --shaft-length 650 --pipe-price 60 --shaft-price 55 --bearing 100`

func NewCmdEstimate(global *GlobalOptions, cfg config.Config) *cobra.Command {
	o := DefaultEstimateOptions(global, cfg)
	cmd := &cobra.Command{
		Use:     "estimate [flags]",
		Short:   "Estimate the cost of one idler",
		Example: estimateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *EstimateOptions) Bind(fs *pflag.FlagSet) {
	in := &o.Input
	fs.StringVar(&o.Variant, "variant", o.Variant, "Estimator variant: simple or assisted")
	fs.StringVar(&in.Material, "material", in.Material, "Mild Steel or Stainless Steel")
	fs.StringVar(&in.IdlerType, "idler-type", in.IdlerType, "Carrying, Return or Impact")

	fs.Float64Var(&in.PipeOD, "pipe-od", 0, "Pipe outside diameter (mm)")
	fs.Float64Var(&in.PipeThickness, "pipe-thickness", 0, "Pipe wall thickness (mm)")
	fs.Float64Var(&in.PipeLength, "pipe-length", 0, "Pipe length (mm)")
	fs.Float64Var(&in.ShaftDia, "shaft-dia", 0, "Shaft diameter (mm)")
	fs.Float64Var(&in.ShaftLength, "shaft-length", 0, "Shaft length (mm)")
	fs.Float64Var(&in.PipePrice, "pipe-price", 0, "Pipe price per kg")
	fs.Float64Var(&in.ShaftPrice, "shaft-price", 0, "Shaft price per kg")

	fs.Float64Var(&in.BoughtOut.Bearing, "bearing", 0, "Bearing price (each)")
	fs.Float64Var(&in.BoughtOut.Cup, "cup", 0, "Cup price (each)")
	fs.Float64Var(&in.BoughtOut.DustCover, "dust-cover", 0, "Dust cover price (each, simple variant)")
	fs.Float64Var(&in.BoughtOut.Seal, "seal", 0, "Seal price (each)")
	fs.Float64Var(&in.BoughtOut.Circlip, "circlip", 0, "Circlip price (each)")

	fs.Float64Var(&in.Conversion.Machining, "machining", 0, "Machining cost (simple variant)")
	fs.Float64Var(&in.Conversion.Painting, "painting", 0, "Painting cost")
	fs.Float64Var(&in.Conversion.Testing, "testing", 0, "Testing cost (simple variant)")
	fs.Float64Var(&in.Conversion.Welding, "welding", 0, "Welding cost (assisted variant)")
	fs.Float64Var(&in.Conversion.Handling, "handling", 0, "Handling cost (assisted variant)")
	fs.Float64Var(&in.Conversion.PipeMachining, "pipe-machining", 0, "Pipe machining cost (assisted variant)")
	fs.Float64Var(&in.Conversion.RodMachining, "rod-machining", 0, "Rod machining cost (assisted variant)")
	fs.Float64Var(&in.Conversion.RodMilling, "rod-milling", 0, "Rod milling cost (assisted variant)")
	fs.Float64Var(&in.Conversion.Assembly, "assembly", 0, "Assembly cost (assisted variant)")

	fs.IntVar(&in.RubberRings, "rubber-rings", 0, "Number of rubber rings (Impact)")
	fs.Float64Var(&in.CostPerRing, "cost-per-ring", 0, "Cost per rubber ring (Impact)")
	fs.Float64Var(&in.RubberFixingCost, "rubber-fixing", 0, "Rubber fixing charges (Impact)")
	fs.IntVar(&in.ProfitPercent, "profit", in.ProfitPercent, "Profit margin in percent (15-20)")
	fs.BoolVar(&in.UseReferenceTable, "use-reference", false, "Reuse or store costs in the reference table (assisted variant)")

	fs.StringVar(&o.RoundingMode, "rounding", o.RoundingMode, "Rounding mode: outputs or each_stage")
	fs.StringVar(&o.Company, "company", o.Company, "Company written on the record")
	fs.BoolVar(&o.Preview, "preview", false, "Compute only; never write to the reference table")
	fs.StringVar(&o.XLSXPath, "xlsx", "", "Write the estimate to this spreadsheet")
	fs.BoolVar(&o.CSV, "csv", false, "Print the estimate as CSV instead of a table")
}

func (o *EstimateOptions) Run(ctx context.Context, out io.Writer) error {
	o.Input.Variant = estimate.Variant(o.Variant)

	est := &estimate.Estimator{
		Mode:    pricing.ParseRoundingMode(o.RoundingMode),
		Company: o.Company,
	}
	if o.Input.UseReferenceTable && o.Input.Variant == estimate.Assisted {
		table, release, err := o.OpenTable(ctx)
		if err != nil {
			return err
		}
		defer release()
		est.Source = estimate.ReferenceSource{Table: table, Log: o.Logger()}
	}

	if o.Preview {
		e, err := est.Preview(ctx, o.Input)
		if err != nil {
			return err
		}
		printBreakdown(out, e.Label(), e.PipeWeight, e.ShaftWeight, e.Result)
		return nil
	}

	l := ledger.New()
	rec, err := est.Add(ctx, o.Input, l)
	if err != nil {
		return err
	}

	if o.CSV {
		if err := ledger.ExportCSV(out, l.List()); err != nil {
			return err
		}
	} else {
		printBreakdown(out, rec.Label, rec.PipeWeight, rec.ShaftWeight, resultOf(rec))
	}

	if o.XLSXPath != "" {
		data, err := ledger.ExportXLSX(l.List())
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.XLSXPath, data, 0o644); err != nil {
			return fmt.Errorf("write spreadsheet: %w", err)
		}
	}
	return nil
}

func resultOf(rec ledger.Record) pricing.Result {
	return pricing.Result{
		Breakdown: pricing.Breakdown{
			PipeCost:         rec.PipeCost,
			ShaftCost:        rec.ShaftCost,
			BoughtOutCost:    rec.BoughtOutCost,
			RubberRingCost:   rec.RubberRingCost,
			RubberFixingCost: rec.RubberFixingCost,
			ConversionCost:   rec.ConversionCost,
			BaseCost:         rec.BaseCost,
			Overhead:         rec.Overhead,
			ProfitPercent:    rec.ProfitPercent,
			Profit:           rec.ProfitCost,
		},
		Totals: pricing.Totals{Total: rec.FinalCost},
	}
}

func printBreakdown(out io.Writer, label string, pipeWeight, shaftWeight float64, r pricing.Result) {
	b := r.Breakdown
	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, label)
	fmt.Fprintf(w, "Pipe Weight (kg)\t%.2f\n", pipeWeight)
	fmt.Fprintf(w, "Shaft Weight (kg)\t%.2f\n", shaftWeight)
	fmt.Fprintf(w, "Pipe Cost\t%.2f\n", b.PipeCost)
	fmt.Fprintf(w, "Shaft Cost\t%.2f\n", b.ShaftCost)
	fmt.Fprintf(w, "Bought-out Cost\t%.2f\n", b.BoughtOutCost)
	fmt.Fprintf(w, "Rubber Ring Cost\t%.2f\n", b.RubberRingCost)
	fmt.Fprintf(w, "Rubber Fixing Cost\t%.2f\n", b.RubberFixingCost)
	fmt.Fprintf(w, "Conversion Cost\t%.2f\n", b.ConversionCost)
	fmt.Fprintf(w, "Base Cost\t%.2f\n", b.BaseCost)
	fmt.Fprintf(w, "Overhead (10%%)\t%.2f\n", b.Overhead)
	fmt.Fprintf(w, "Profit (%g%%)\t%.2f\n", b.ProfitPercent, b.Profit)
	fmt.Fprintf(w, "Final Cost\t%.2f\n", r.Totals.Total)
	w.Flush()
}
