package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cosmoprep/internal/config"
	"github.com/san-kum/cosmoprep/internal/cosmology"
	"github.com/san-kum/cosmoprep/internal/storage"
)

var (
	dataDir    string
	configFile string
	save       bool
	table      string
	numThermo  int
	h0         float64
	omegam     float64
	omegab     float64
	omegal     float64
	nmnu       int
	mnu        float64
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cosmoprep",
		Short: "precompute cosmological perturbation lookup tables",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cosmoprep", "data directory")

	buildCmd := &cobra.Command{
		Use:   "build [preset]",
		Short: "build the lookup-table bundle for a cosmology",
		Args:  cobra.MaximumNArgs(1),
		RunE:  buildBundle,
	}
	buildCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	buildCmd.Flags().BoolVar(&save, "save", false, "save the sampled tables")
	buildCmd.Flags().IntVar(&numThermo, "num-thermo", 0, "thermal grid size (0 = preset default)")
	buildCmd.Flags().Float64Var(&h0, "h0", 0, "override H0 [km/s/Mpc]")
	buildCmd.Flags().Float64Var(&omegam, "omega-m", 0, "override Omega_m")
	buildCmd.Flags().Float64Var(&omegab, "omega-b", 0, "override Omega_b")
	buildCmd.Flags().Float64Var(&omegal, "omega-l", 0, "override Omega_L")
	buildCmd.Flags().IntVar(&nmnu, "nmnu", 0, "massive neutrino flavours")
	buildCmd.Flags().Float64Var(&mnu, "mnu", 0, "neutrino mass [eV]")

	plotCmd := &cobra.Command{
		Use:   "plot [preset]",
		Short: "plot a lookup table in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotBundle,
	}
	plotCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	plotCmd.Flags().StringVar(&table, "table", "rhonu", "table to plot: rhonu, pnu, xe, tb, cs2, a")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in parameter presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved table sets",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(buildCmd, plotCmd, presetsCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfig(args []string) (*config.Config, string, error) {
	name := "default"
	cfg := config.DefaultConfig()

	if len(args) == 1 {
		preset := config.GetPreset(args[0])
		if preset == nil {
			return nil, "", fmt.Errorf("unknown preset %q (see `cosmoprep presets`)", args[0])
		}
		cfg = preset
		name = args[0]
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
		name = "custom"
	}

	// Flag overrides beat preset and file values.
	if h0 > 0 {
		cfg.Cosmology.H0 = h0
	}
	if omegam > 0 {
		cfg.Cosmology.Omegam = omegam
	}
	if omegab > 0 {
		cfg.Cosmology.Omegab = omegab
	}
	if omegal > 0 {
		cfg.Cosmology.OmegaL = omegal
	}
	if nmnu > 0 {
		cfg.Cosmology.Nmnu = nmnu
	}
	if mnu > 0 {
		cfg.Cosmology.Mnu = mnu
	}
	if numThermo > 0 {
		cfg.Tables.NumThermo = numThermo
	}
	return cfg, name, nil
}

func buildBundle(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(args)
	if err != nil {
		return err
	}

	bundle, err := cosmology.New(cfg.Params(), cfg.Options())
	if err != nil {
		return err
	}

	printSummary(name, bundle)

	if save {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(name, bundle, cfg.Options().NumThermo)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}
	return nil
}

func printSummary(name string, b *cosmology.Bundle) {
	fmt.Println(titleStyle.Render("cosmology: " + name))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	row := func(label string, format string, v ...interface{}) {
		fmt.Fprintf(w, "%s\t%s\n",
			labelStyle.Render(label), valueStyle.Render(fmt.Sprintf(format, v...)))
	}
	p := b.Params
	d := b.Derived
	row("Omega_m / Omega_b / Omega_L", "%.4f / %.4f / %.4f", p.Omegam, p.Omegab, p.OmegaL)
	row("H0 / Tcmb", "%.2f km/s/Mpc / %.4f K", p.H0, p.Tcmb)
	row("Neff / Nmnu / mnu", "%.3f / %d / %.3f eV", p.Neff, p.Nmnu, p.Mnu)
	row("amnu", "%.4g", d.Amnu)
	row("taumin / taumax", "%.6g / %.6g", d.TauMin, d.TauMax)
	row("rhonu(a=1) / pnu(a=1)", "%.6g / %.6g",
		b.RhonuOfA.Evaluate(1.0), b.PnuOfA.Evaluate(1.0))
	row("xe today", "%.4g", b.XeOfTau.Evaluate(d.TauMax))
	w.Flush()
}

func plotBundle(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(args)
	if err != nil {
		return err
	}

	bundle, err := cosmology.New(cfg.Params(), cfg.Options())
	if err != nil {
		return err
	}

	const samples = 160
	data := make([]float64, samples)
	var caption string

	switch table {
	case "rhonu", "pnu":
		// Sample against log a so the radiation era is visible.
		lnMin := math.Log(bundle.Derived.Amin)
		lnMax := math.Log(bundle.Derived.Amax)
		for i := range data {
			a := math.Exp(lnMin + float64(i)/float64(samples-1)*(lnMax-lnMin))
			if table == "rhonu" {
				data[i] = bundle.RhonuOfA.Evaluate(a)
			} else {
				data[i] = bundle.PnuOfA.Evaluate(a)
			}
		}
		caption = fmt.Sprintf("%s vs log a  [%s]", table, name)
	case "xe", "tb", "cs2", "a":
		sp := map[string]interface{ Evaluate(float64) float64 }{
			"xe": bundle.XeOfTau, "tb": bundle.TempbOfTau,
			"cs2": bundle.Cs2OfTau, "a": bundle.AOfTau,
		}[table]
		lo, hi := bundle.Derived.TauMin, bundle.Derived.TauMax
		for i := range data {
			tau := lo + float64(i)/float64(samples-1)*(hi-lo)
			data[i] = sp.Evaluate(tau)
		}
		caption = fmt.Sprintf("%s vs tau  [%s]", table, name)
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOMEGA_M\tOMEGA_L\tH0\tNMNU\tMNU")
	for _, name := range names {
		c := config.GetPreset(name).Cosmology
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.2f\t%d\t%.3f\n",
			name, c.Omegam, c.OmegaL, c.H0, c.Nmnu, c.Mnu)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIMESTAMP\tH0\tOMEGA_M\tTAUMAX")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.4f\t%.6g\n",
			run.ID, run.Timestamp.Format("2006-01-02 15:04"),
			run.Params.H0, run.Params.Omegam, run.TauMax)
	}
	return w.Flush()
}
