package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/joeycumines/survivor/internal/agent"
	"github.com/joeycumines/survivor/internal/config"
	"github.com/joeycumines/survivor/internal/sim"
)

const runSection = "run"

// RunCommand drives an agent through a scenario in the simulator.
type RunCommand struct {
	*BaseCommand
	config *config.Config

	scenario    string
	ticks       int
	dt          float64
	every       int
	color       string
	summaryOnly bool
	logLevel    string
	logFormat   string
	logFile     string
}

// NewRunCommand creates a new run command.
func NewRunCommand(cfg *config.Config) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Run the agent against a scenario",
			"run [options] [scenario.yaml]",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the run command. Zero values defer to
// the [run] config section.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.scenario, "scenario", "", "Scenario YAML file")
	fs.IntVar(&c.ticks, "ticks", 0, "Ticks to simulate")
	fs.Float64Var(&c.dt, "dt", 0, "Seconds per tick")
	fs.IntVar(&c.every, "every", -1, "Trace every Nth tick, 0 for none")
	fs.StringVar(&c.color, "color", "", "Color mode: auto, always, never")
	fs.BoolVar(&c.summaryOnly, "summary-only", false, "Print only the final summary")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", "", "Log format: text, json")
	fs.StringVar(&c.logFile, "log-file", "", "Append logs to this file instead of stderr")
}

// Execute runs the scenario.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	scenarioPath := c.scenario
	switch {
	case len(args) == 1 && scenarioPath == "":
		scenarioPath = args[0]
	case len(args) > 0:
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	if scenarioPath == "" {
		return fmt.Errorf("run: a scenario file is required")
	}

	cfg := c.config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	schema := config.DefaultSchema()

	opts, err := c.resolveOptions(cfg, schema, stdout)
	if err != nil {
		return err
	}

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.logFormat, cfg)
	if err != nil {
		return err
	}
	if lc.logFile != nil {
		defer lc.logFile.Close()
	}
	logger := lc.logger(stderr)

	sc, err := sim.LoadScenarioFile(scenarioPath)
	if err != nil {
		return err
	}
	tuning, err := config.Tuning(cfg, schema)
	if err != nil {
		return err
	}

	host := sim.NewHost(sc)
	var agentOpts []agent.Option
	if opts.Trace != nil {
		opts.Recorder = &sim.Recorder{}
		agentOpts = append(agentOpts, agent.WithObserver(opts.Recorder.Observe))
	}
	a, err := agent.New(host, tuning, logger, agentOpts...)
	if err != nil {
		return err
	}
	logger.Info("scenario loaded", "name", sc.Name, "path", scenarioPath, "ticks", opts.Ticks, "dt", opts.DT)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticks, runErr := sim.Run(ctx, host, a, opts)

	info := host.AgentInfo()
	summary := sim.Summary{
		Ticks:       ticks,
		Time:        host.Time(),
		Survived:    !info.Dead,
		Health:      info.Health,
		Kills:       host.Kills(),
		EnemiesLeft: host.EnemiesLeft(),
		ItemsLeft:   host.ItemsLeft(),
		KnownHouses: a.KnownHouses().Len(),
		KnownItems:  a.KnownItems().Len(),
	}
	report := opts.Trace
	if report == nil {
		report = sim.NewTrace(stdout, sim.WithColor(c.useColor(cfg, schema, stdout)))
	}
	if err := report.Summary(summary); err != nil {
		return err
	}
	return runErr
}

func (c *RunCommand) resolveOptions(cfg *config.Config, schema *config.Schema, stdout io.Writer) (sim.RunOptions, error) {
	var opts sim.RunOptions

	opts.Ticks = c.ticks
	if opts.Ticks <= 0 {
		v, err := strconv.Atoi(schema.ResolveIn(cfg, runSection, "ticks"))
		if err != nil || v <= 0 {
			return opts, fmt.Errorf("run: invalid ticks %q", schema.ResolveIn(cfg, runSection, "ticks"))
		}
		opts.Ticks = v
	}

	opts.DT = c.dt
	if opts.DT <= 0 {
		v, err := strconv.ParseFloat(schema.ResolveIn(cfg, runSection, "dt"), 64)
		if err != nil || v <= 0 {
			return opts, fmt.Errorf("run: invalid dt %q", schema.ResolveIn(cfg, runSection, "dt"))
		}
		opts.DT = v
	}

	every := c.every
	if every < 0 {
		v, err := strconv.Atoi(schema.ResolveIn(cfg, runSection, "every"))
		if err != nil || v < 0 {
			return opts, fmt.Errorf("run: invalid every %q", schema.ResolveIn(cfg, runSection, "every"))
		}
		every = v
	}

	summaryOnly := c.summaryOnly
	if !summaryOnly {
		summaryOnly, _ = config.ParseBool(schema.ResolveIn(cfg, runSection, "summary-only"))
	}

	if every > 0 && !summaryOnly {
		opts.Trace = sim.NewTrace(stdout,
			sim.WithColor(c.useColor(cfg, schema, stdout)),
			sim.WithEvery(every))
	}
	return opts, nil
}

func (c *RunCommand) useColor(cfg *config.Config, schema *config.Schema, stdout io.Writer) bool {
	mode := c.color
	if mode == "" {
		mode = schema.ResolveIn(cfg, runSection, "color")
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := stdout.(*os.File)
	return ok && sim.IsTerminal(f)
}
