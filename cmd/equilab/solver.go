package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/equilab/internal/chem"
	"github.com/san-kum/equilab/internal/export"
	"github.com/san-kum/equilab/internal/input"
)

var (
	kText        string
	reactantText string
	productText  string
	aText        string
	bText        string
	cText        string
	dText        string
	chartPath    string

	reactantConc   string
	reactantCoeffs string
	productConc    string
	productCoeffs  string
	reactantNames  string
	productNames   string
	compareK       string
	listConditions bool
)

func solverCommands() []*cobra.Command {
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "equilibrium concentrations for A <=> B",
		RunE:  solveTwo,
	}
	addTwoSpeciesFlags(solveCmd)
	solveCmd.Flags().StringVar(&chartPath, "png", "", "write a bar chart to this path (use '-' for "+export.DefaultChartFile+")")

	solve4Cmd := &cobra.Command{
		Use:   "solve4",
		Short: "equilibrium concentrations for A + B <=> C + D",
		RunE:  solveFour,
	}
	f := solve4Cmd.Flags()
	f.StringVar(&kText, "k", "", "equilibrium constant")
	f.StringVar(&aText, "a0", "", "initial [A]")
	f.StringVar(&bText, "b0", "", "initial [B]")
	f.StringVar(&cText, "c0", "", "initial [C]")
	f.StringVar(&dText, "d0", "", "initial [D]")

	quotientCmd := &cobra.Command{
		Use:   "quotient",
		Short: "reaction quotient Q from comma separated lists",
		RunE:  quotient,
	}
	f = quotientCmd.Flags()
	f.StringVar(&reactantConc, "reactants", "", "reactant concentrations, e.g. 1,0.5")
	f.StringVar(&reactantCoeffs, "reactant-coeffs", "", "reactant coefficients (default 1)")
	f.StringVar(&reactantNames, "reactant-names", "", "reactant names")
	f.StringVar(&productConc, "products", "", "product concentrations")
	f.StringVar(&productCoeffs, "product-coeffs", "", "product coefficients (default 1)")
	f.StringVar(&productNames, "product-names", "", "product names")
	f.StringVar(&compareK, "k", "", "compare Q against this K")

	adviseCmd := &cobra.Command{
		Use:   "advise [condition]",
		Short: "Le Chatelier response to a change of conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  advise,
	}
	adviseCmd.Flags().BoolVar(&listConditions, "list", false, "list known conditions")

	homogeneousCmd := &cobra.Command{
		Use:   "homogeneous",
		Short: "homogeneous equilibrium split",
		RunE: func(cmd *cobra.Command, args []string) error {
			return splitCalc(cmd.OutOrStdout(), "homogeneous", chem.Homogeneous)
		},
	}
	addTwoSpeciesFlags(homogeneousCmd)

	heterogeneousCmd := &cobra.Command{
		Use:   "heterogeneous",
		Short: "heterogeneous equilibrium scaling",
		RunE: func(cmd *cobra.Command, args []string) error {
			return splitCalc(cmd.OutOrStdout(), "heterogeneous", chem.Heterogeneous)
		},
	}
	addTwoSpeciesFlags(heterogeneousCmd)

	return []*cobra.Command{solveCmd, solve4Cmd, quotientCmd, adviseCmd, homogeneousCmd, heterogeneousCmd}
}

func addTwoSpeciesFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&kText, "k", "", "equilibrium constant")
	f.StringVar(&reactantText, "reactant", "", "initial reactant concentration")
	f.StringVar(&productText, "product", "", "initial product concentration")
}

// orDefault parses text leniently, using def when the flag was not given.
func orDefault(text string, def float64) float64 {
	if strings.TrimSpace(text) == "" {
		return def
	}
	return input.Float(text)
}

func solverK() (float64, error) {
	k := orDefault(kText, cfg.Solver.K)
	if err := input.Positive("K", k); err != nil {
		return 0, err
	}
	return k, nil
}

func solveTwo(cmd *cobra.Command, args []string) error {
	k, err := solverK()
	if err != nil {
		return err
	}
	reactant := orDefault(reactantText, cfg.Solver.Reactant)
	product := orDefault(productText, cfg.Solver.Product)

	res, err := chem.SolveTwoSpecies(k, reactant, product)
	if errors.Is(err, chem.ErrNoRealSolution) {
		log.Warnf("%v; showing initial values", err)
	} else if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "K = %.2f\n", k)
	fmt.Fprintf(out, "  reactant  %.4f M\n", res.Reactant)
	fmt.Fprintf(out, "  product   %.4f M\n", res.Product)
	if err == nil {
		fmt.Fprintf(out, "  extent    %.4f M\n", res.Extent)
	}

	if chartPath == "" {
		return nil
	}
	path := chartPath
	if path == "-" {
		path = export.DefaultChartFile
	}
	bars := export.ConcentrationBars(res.Reactant, res.Product)
	err = export.WriteFile(path, func(w io.Writer) error {
		return export.BarPNG(w, bars, fmt.Sprintf("K = %.2f", k), 640, 320)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "chart written to %s\n", path)
	return nil
}

func solveFour(cmd *cobra.Command, args []string) error {
	k, err := solverK()
	if err != nil {
		return err
	}
	def := cfg.Four()
	in := chem.FourSpecies{
		A: orDefault(aText, def.A),
		B: orDefault(bText, def.B),
		C: orDefault(cText, def.C),
		D: orDefault(dText, def.D),
	}
	for name, v := range map[string]float64{"[A]": in.A, "[B]": in.B, "[C]": in.C, "[D]": in.D} {
		if err := input.NonNegative(name, v); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	res, err := chem.SolveFourSpecies(k, in)
	if errors.Is(err, chem.ErrNoValidSolution) {
		// No previous display exists on the command line, so the held values
		// are the inputs.
		log.Warnf("%v; keeping previous concentrations", err)
		res = in
	} else if err != nil {
		return err
	}

	fmt.Fprintf(out, "K = %.2f\n", k)
	fmt.Fprintf(out, "  %-4s %10s %10s\n", "", "initial", "equil.")
	labels := []string{"[A]", "[B]", "[C]", "[D]"}
	initial, final := in.Slice(), res.Slice()
	for i, l := range labels {
		fmt.Fprintf(out, "  %-4s %10.4f %10.4f\n", l, initial[i], final[i])
	}
	return nil
}

func quotient(cmd *cobra.Command, args []string) error {
	terms := chem.Terms(chem.Reactant, input.Names(reactantNames), input.List(reactantConc), input.List(reactantCoeffs))
	terms = append(terms, chem.Terms(chem.Product, input.Names(productNames), input.List(productConc), input.List(productCoeffs))...)
	if len(terms) == 0 {
		return fmt.Errorf("no concentrations given: %w", chem.ErrInvalidInput)
	}

	q := chem.ReactionQuotient(terms)
	out := cmd.OutOrStdout()
	for _, t := range terms {
		name := t.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "  %-8s %-8s %8.4f ^ %g\n", t.Role, name, t.Concentration, t.Coefficient)
	}
	fmt.Fprintf(out, "Q = %.4f\n", q)

	if strings.TrimSpace(compareK) != "" {
		k := input.Float(compareK)
		if err := input.Positive("K", k); err != nil {
			return err
		}
		fmt.Fprintf(out, "K = %.4f: %s\n", k, chem.Direction(q, k, 1e-9))
	}
	return nil
}

func advise(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if listConditions || len(args) == 0 {
		for _, c := range chem.Conditions() {
			fmt.Fprintf(out, "  %-22s %s\n", c, chem.Advise(c))
		}
		return nil
	}
	fmt.Fprintln(out, chem.Advise(chem.Condition(args[0])))
	return nil
}

func splitCalc(out io.Writer, name string, calc func(k, reactant, product float64) chem.HomogeneousResult) error {
	k, err := solverK()
	if err != nil {
		return err
	}
	reactant := orDefault(reactantText, cfg.Solver.Reactant)
	product := orDefault(productText, cfg.Solver.Product)

	res := calc(k, reactant, product)
	fmt.Fprintf(out, "%s, K = %.2f\n", name, k)
	fmt.Fprintf(out, "  reactants %.4f M\n", res.Reactants)
	fmt.Fprintf(out, "  products  %.4f M\n", res.Products)

	fmt.Fprintln(out, asciigraph.Plot([]float64{0, res.Reactants, res.Reactants, 0, res.Products, res.Products, 0},
		asciigraph.Height(6),
		asciigraph.Width(28),
		asciigraph.Caption("reactants | products"),
	))
	return nil
}
