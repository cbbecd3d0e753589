package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/apexsim/mbforce/internal/analysis"
	"github.com/apexsim/mbforce/internal/config"
	"github.com/apexsim/mbforce/internal/forces"
	"github.com/apexsim/mbforce/internal/integrators"
	"github.com/apexsim/mbforce/internal/mech"
	"github.com/apexsim/mbforce/internal/metrics"
	"github.com/apexsim/mbforce/internal/sim"
	"github.com/apexsim/mbforce/internal/store"
	"github.com/apexsim/mbforce/internal/viz"
)

var (
	dataDir    string
	configFile string

	dt        float64
	duration  float64
	pos       float64
	vel       float64
	numMasses int
	mass      float64
	stiffness float64
	damping   float64

	noThermostat bool
	bathTemp     float64
	relaxTime    float64
	numChains    int

	saveRun bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mbforce",
		Short: "thermostatted multibody force-element playground",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mbforce", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a thermostatted spring-chain simulation",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a simulation live in the terminal",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(runCmd, liveCmd, runsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&pos, "pos", 1.0, "initial position of the first mass")
	cmd.Flags().Float64Var(&vel, "vel", 0.0, "initial velocity of the first mass")
	cmd.Flags().IntVar(&numMasses, "masses", 1, "number of point masses")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "mass of each point")
	cmd.Flags().Float64Var(&stiffness, "k", config.DefaultStiffness, "spring stiffness per mass")
	cmd.Flags().Float64Var(&damping, "c", 0.0, "damping per mass")
	cmd.Flags().BoolVar(&noThermostat, "no-thermostat", false, "disable the thermostat")
	cmd.Flags().Float64Var(&bathTemp, "temp", config.DefaultBathTemp, "bath temperature")
	cmd.Flags().Float64Var(&relaxTime, "tau", config.DefaultRelaxation, "relaxation time")
	cmd.Flags().IntVar(&numChains, "chains", config.DefaultChains, "thermostat chain count")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags given explicitly override the file.
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("masses") {
		cfg.Chain.NumMasses = numMasses
	}
	if cmd.Flags().Changed("mass") {
		cfg.Chain.Mass = mass
	}
	if cmd.Flags().Changed("k") {
		cfg.Chain.Stiffness = stiffness
	}
	if cmd.Flags().Changed("c") {
		cfg.Chain.Damping = damping
	}
	if cmd.Flags().Changed("no-thermostat") {
		cfg.Thermostat.Enabled = !noThermostat
	}
	if cmd.Flags().Changed("temp") {
		cfg.Thermostat.Temperature = bathTemp
	}
	if cmd.Flags().Changed("tau") {
		cfg.Thermostat.RelaxationTime = relaxTime
	}
	if cmd.Flags().Changed("chains") {
		cfg.Thermostat.Chains = numChains
	}
	if cmd.Flags().Changed("pos") {
		cfg.InitState.Pos = pos
	}
	if cmd.Flags().Changed("vel") {
		cfg.InitState.Vel = vel
	}
	return cfg, cfg.Validate()
}

func buildModel(cfg *config.Config) (*sim.Model, *forces.Thermostat, error) {
	n := cfg.Chain.NumMasses
	masses := make([]float64, n)
	for i := range masses {
		masses[i] = cfg.Chain.Mass
	}

	chain, err := mech.NewChain(masses)
	if err != nil {
		return nil, nil, err
	}
	sub := forces.NewSubsystem(chain)

	for i := 0; i < n; i++ {
		if _, err := forces.NewMobilityLinearSpring(sub, i, cfg.Chain.Stiffness, 0); err != nil {
			return nil, nil, err
		}
		if cfg.Chain.Damping > 0 {
			if _, err := forces.NewMobilityLinearDamper(sub, i, cfg.Chain.Damping); err != nil {
				return nil, nil, err
			}
		}
	}

	var thermo *forces.Thermostat
	if cfg.Thermostat.Enabled {
		thermo, err = forces.NewThermostat(sub, cfg.Thermostat.Boltzmann,
			cfg.Thermostat.Temperature, cfg.Thermostat.RelaxationTime)
		if err != nil {
			return nil, nil, err
		}
		if err := thermo.SetDefaultNumChains(cfg.Thermostat.Chains); err != nil {
			return nil, nil, err
		}
	}

	return sim.NewModel(chain, sub), thermo, nil
}

func pickIntegrator(name string) (sim.Integrator, error) {
	switch name {
	case "", "rk4":
		return integrators.NewRK4(), nil
	case "euler":
		return integrators.NewEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", name)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	model, thermo, err := buildModel(cfg)
	if err != nil {
		return err
	}

	x0 := model.Pack()
	x0[0] = cfg.InitState.Pos
	x0[cfg.Chain.NumMasses] = cfg.InitState.Vel

	integ, err := pickIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	simulator := sim.New(model, integ)
	simulator.AddMetric(metrics.NewExtendedDrift(model, thermo))
	if thermo != nil {
		simulator.AddMetric(metrics.NewTemperature(model, thermo))
	}

	result, err := simulator.Run(context.Background(), x0, sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		ValidateState: true,
	})
	if err != nil {
		return err
	}

	printSummary(model, thermo, result)

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Dt, cfg.Duration, cfg.Integrator, result)
		if err != nil {
			return err
		}
		fmt.Println(viz.MetricLabel.Render("saved as "), runID)
	}
	return nil
}

func printSummary(model *sim.Model, thermo *forces.Thermostat, result *sim.Result) {
	if thermo != nil {
		series := sampleTemperature(model, thermo, result, 72)
		if len(series) > 1 {
			fmt.Println(asciigraph.Plot(series, asciigraph.Height(10),
				asciigraph.Caption("instantaneous temperature")))
		}
	}

	fmt.Println()
	fmt.Println(viz.StatusRunning.Render("done"))
	for name, value := range result.Metrics {
		fmt.Printf("%s %s\n", viz.MetricLabel.Render(name), viz.MetricValue.Render(fmt.Sprintf("%.6g", value)))
	}
	fmt.Printf("%s %s\n", viz.MetricLabel.Render("steps"), viz.MetricValue.Render(fmt.Sprintf("%d", result.StepsTaken)))

	if len(result.States) > 3 && len(result.Times) > 1 {
		series := make([]float64, len(result.States))
		for i := range result.States {
			series[i] = result.States[i][0]
		}
		dt := result.Times[1] - result.Times[0]
		if freq := analysis.DominantFrequency(series, dt); freq > 0 {
			fmt.Printf("%s %s\n", viz.MetricLabel.Render("dominant freq"),
				viz.MetricValue.Render(fmt.Sprintf("%.4g /s", freq)))
		}
	}
}

// sampleTemperature replays stored states through the model to build a
// plot-sized temperature series.
func sampleTemperature(model *sim.Model, thermo *forces.Thermostat, result *sim.Result, width int) []float64 {
	if len(result.States) == 0 {
		return nil
	}
	stride := len(result.States)/width + 1
	series := make([]float64, 0, width)
	for i := 0; i < len(result.States); i += stride {
		model.Apply(result.States[i], result.Times[i])
		series = append(series, thermo.CurrentTemperature(model.State()))
	}
	return series
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	model, thermo, err := buildModel(cfg)
	if err != nil {
		return err
	}

	x0 := model.Pack()
	x0[0] = cfg.InitState.Pos
	x0[cfg.Chain.NumMasses] = cfg.InitState.Vel
	model.Apply(x0, 0)

	integ, err := pickIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	live := viz.NewLive(model, integ, thermo, cfg.Dt)
	_, err = tea.NewProgram(live, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDT\tDURATION\tINTEGRATOR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\n",
			run.ID, run.Timestamp.Format("2006-01-02 15:04:05"), run.Dt, run.Duration, run.Integrator)
	}
	return w.Flush()
}
