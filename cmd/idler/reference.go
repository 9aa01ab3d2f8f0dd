package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/steadfast/idlerest/internal/reference"
	"github.com/steadfast/idlerest/internal/seed"
)

var errNotFound = errors.New("pipe size not found")

func NewCmdReference(global *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Inspect and import the reference cost table",
	}
	cmd.AddCommand(newCmdReferenceList(global))
	cmd.AddCommand(newCmdReferenceLookup(global))
	cmd.AddCommand(newCmdReferenceImport(global))
	return cmd
}

func newCmdReferenceList(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every reference row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, release, err := global.OpenTable(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			rows, err := table.All(cmd.Context())
			if err != nil {
				return err
			}
			printReferenceRows(cmd.OutOrStdout(), rows...)
			return nil
		},
	}
}

func newCmdReferenceLookup(global *GlobalOptions) *cobra.Command {
	var key reference.Key
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print the reference row for a pipe OD and shaft diameter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, release, err := global.OpenTable(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			row, ok, err := table.Lookup(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("pipe OD %g, shaft dia %g: %w", key.PipeOD, key.ShaftDia, errNotFound)
			}
			printReferenceRows(cmd.OutOrStdout(), row)
			return nil
		},
	}
	cmd.Flags().Float64Var(&key.PipeOD, "pipe-od", 0, "Pipe outside diameter (mm)")
	cmd.Flags().Float64Var(&key.ShaftDia, "shaft-dia", 0, "Shaft diameter (mm)")
	_ = cmd.MarkFlagRequired("pipe-od")
	_ = cmd.MarkFlagRequired("shaft-dia")
	return cmd
}

func newCmdReferenceImport(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [master.xlsx]",
		Short: "Import a master spreadsheet into the SQLite reference table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := global.ReferenceFile
			if len(args) == 1 {
				path = args[0]
			}
			return runImport(cmd.Context(), global, path, cmd.OutOrStdout())
		},
	}
}

func runImport(ctx context.Context, global *GlobalOptions, path string, out io.Writer) error {
	database, err := global.OpenDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	stats, err := seed.ImportFile(ctx, database, path, global.Logger())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d rows, skipped %d existing\n", stats.Inserts, stats.Skips)
	return nil
}

func printReferenceRows(out io.Writer, rows ...reference.Row) {
	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	for i, c := range reference.Columns() {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintf(w, "%g\t%g\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.PipeOD, r.ShaftDia,
			r.BoughtOut.Bearing, r.BoughtOut.Cup, r.BoughtOut.Seal, r.BoughtOut.Circlip,
			r.Conversion.Painting, r.Conversion.Welding, r.Conversion.Handling,
			r.Conversion.PipeMachining, r.Conversion.RodMachining, r.Conversion.RodMilling, r.Conversion.Assembly)
	}
	w.Flush()
}
