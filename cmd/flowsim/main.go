// flowsim runs a YAML-described scenario of generators and managers and
// records the resulting arrival statistics.
package main

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/flowsim/flowsim/sim"
	"github.com/flowsim/flowsim/simulation"
)

var (
	configPath  string
	outputPath  string
	monitorOn   bool
	monitorPort int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "flowsim",
	Short: "Run a process-interaction simulation scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}

		return runScenario(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to the scenario YAML file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output database name, without extension")
	rootCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"serve simulation state over HTTP while running")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port for the monitoring server")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"log every dispatched event")
	_ = rootCmd.MarkFlagRequired("config")
}

// managedParams collects the values applied by managers so that the final
// state can be reported.
type managedParams struct {
	sync.Mutex
	values map[string]int
}

func runScenario(cfg *Config) error {
	builder := simulation.MakeBuilder()
	if !monitorOn {
		builder = builder.WithoutMonitoring()
	} else if monitorPort > 0 {
		builder = builder.WithMonitorPort(monitorPort)
	}
	if outputPath != "" {
		builder = builder.WithOutputFileName(outputPath)
	}

	s := builder.Build()
	defer s.Terminate()

	if verbose {
		s.Engine().AcceptHook(sim.NewEventLogger(logrus.StandardLogger()))
	}

	generators := make([]*sim.Generator, 0, len(cfg.Generators))
	for _, gc := range cfg.Generators {
		order := sim.NewOrder(gc.Priority, gc.Preemptible, gc.Restart)
		g := sim.NewGenerator(s.Scheduler(), gc.Name, gc.Monitored,
			gc.BuildTrajectory(), gc.BuildSampler(), order)
		s.RegisterProcess(g)
		generators = append(generators, g)
	}

	params := &managedParams{values: make(map[string]int)}
	for _, mc := range cfg.Managers {
		durations := make([]sim.VTimeInSec, len(mc.Duration))
		for i, d := range mc.Duration {
			durations[i] = sim.VTimeInSec(d)
		}

		param := mc.Param
		m := sim.NewManager(s.Scheduler(), mc.Name, param,
			durations, mc.Value, mc.Period, func(v int) {
				params.Lock()
				params.values[param] = v
				params.Unlock()
				logrus.Debugf("%s set to %d at %.2f",
					param, v, s.Scheduler().CurrentTime())
			})
		s.RegisterProcess(m)
	}

	if err := s.Run(); err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	fmt.Printf("Simulation %s finished at %.2f\n",
		s.ID(), s.Engine().CurrentTime())
	for _, g := range generators {
		fmt.Printf("  %s: %d arrivals generated\n",
			g.Name(), g.NGenerated())
	}
	for param, v := range params.values {
		fmt.Printf("  %s = %d\n", param, v)
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		atexit.Fatalf("%v", err)
	}
	atexit.Exit(0)
}
