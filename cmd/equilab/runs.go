package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/equilab/internal/analysis"
	"github.com/san-kum/equilab/internal/export"
	"github.com/san-kum/equilab/internal/storage"
	"github.com/san-kum/equilab/internal/telemetry"
	"github.com/san-kum/equilab/internal/tui"
)

var (
	outPath        string
	snapshotFormat string
)

func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot species counts and Kc of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "settling, flapping period and composition path of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run-id]",
		Short: "export run telemetry as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run-id]",
		Short: "render the species chart of a run as png or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run-id>.<format>)")
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", "png", "png or svg")

	return []*cobra.Command{listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, snapshotCmd}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tINITIAL\tTARGET\tSTEPS\tFINAL\tKC\tREACHED")

	for _, run := range runs {
		kc := "undefined"
		if run.Kc != nil {
			kc = fmt.Sprintf("%.3f", *run.Kc)
		}
		reached := "-"
		if run.Reached {
			reached = fmt.Sprintf("tick %d", run.ReachedAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d/%d\t%.2f\t%d\t%d/%d/%d\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Initial.A, run.Initial.B, run.Initial.AB,
			run.TargetKc,
			run.Steps,
			run.Final.A, run.Final.B, run.Final.AB,
			kc,
			reached,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []telemetry.Point, error) {
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	points, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, points, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, points, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target Kc: %.2f\n", meta.TargetKc)
	fmt.Printf("samples: %d\n\n", len(points))

	captions := []string{"reactant A", "reactant B", "product AB"}
	for i, col := range speciesColumns(points) {
		fmt.Println(asciigraph.Plot(col,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[i]),
		))
		fmt.Println()
	}

	kc, skipped := definedKc(points)
	if len(kc) > 1 {
		fmt.Println(asciigraph.Plot(kc,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("Kc (target %.2f)", meta.TargetKc)),
		))
	}
	if skipped > 0 {
		fmt.Printf("%d samples with undefined Kc omitted\n", skipped)
	}
	return nil
}

// definedKc drops readings where [A][B] was zero.
func definedKc(points []telemetry.Point) ([]float64, int) {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Kc) || math.IsInf(p.Kc, 0) {
			continue
		}
		out = append(out, p.Kc)
	}
	return out, len(points) - len(out)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, points, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	sum := analysis.Summarize(points, meta.TargetKc, meta.Tolerance)
	fmt.Printf("samples: %d\n", sum.Points)
	if sum.SettledAt >= 0 {
		fmt.Printf("first within tolerance: tick %d\n", sum.SettledAt)
	} else {
		fmt.Println("never within tolerance")
	}
	fmt.Printf("Kc mean %s, range [%s, %s]\n",
		tui.FormatKc(sum.MeanKc), tui.FormatKc(sum.MinKc), tui.FormatKc(sum.MaxKc))
	fmt.Printf("target crossings: %d\n", sum.Crossings)
	fmt.Printf("final: A=%d B=%d AB=%d\n\n", sum.FinalA, sum.FinalB, sum.FinalAB)

	ab := speciesColumns(points)[2]
	ps := analysis.PowerSpectrum(ab)
	if len(ps) > 4 {
		plotData := ps[1 : len(ps)/2]
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (AB count)"),
		))
		fmt.Println()
	}

	kc, _ := definedKc(points)
	if period, ok := analysis.DominantPeriod(kc); ok {
		fmt.Printf("Kc oscillation period: %.1f ticks\n", period)
	} else {
		fmt.Println("Kc oscillation period: none")
	}

	fmt.Println("\ncomposition path (A vs AB):")
	fmt.Println(analysis.Trajectory(points, 60, 16))
	return nil
}

// output returns stdout when path is empty.
func output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	points, err := openStore().LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to export")
	}

	w, closeFn, err := output(outPath)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, points); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, points, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := storage.ExportJSON(outPath, *meta, points); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %s to %s\n", meta.ID, outPath)
		return nil
	}
	return storage.WriteJSON(os.Stdout, *meta, points)
}

func snapshot(cmd *cobra.Command, args []string) error {
	meta, points, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to render")
	}

	format := strings.ToLower(snapshotFormat)
	path := outPath
	if path == "" {
		path = filepath.Clean(meta.ID + "." + format)
	}

	lines := export.SpeciesLines(points)
	title := fmt.Sprintf("%s  target Kc %.2f", meta.ID, meta.TargetKc)
	const width, height = 800, 400

	switch format {
	case "png":
		err = export.WriteFile(path, func(w io.Writer) error {
			return export.LinePNG(w, lines, title, width, height)
		})
	case "svg":
		err = os.WriteFile(path, []byte(export.LineSVG(lines, title, width, height)), 0644)
	default:
		return fmt.Errorf("unknown format: %s (png, svg)", snapshotFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}
