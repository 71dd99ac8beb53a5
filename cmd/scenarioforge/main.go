// Command scenarioforge is the CLI entrypoint for the crisis-scenario
// generation engine: it wires the agentic components, the workflow
// controller, and the public engine API together, then dispatches one
// subcommand (spec.md §6's generate_scenario/supply_decision/
// list_scenarios/get_scenario/get_scenario_logs, plus an infrastructure
// seeding command).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/finhavoc/scenarioforge/pkg/agentic/critic"
	"github.com/finhavoc/scenarioforge/pkg/agentic/generator"
	"github.com/finhavoc/scenarioforge/pkg/agentic/manager"
	"github.com/finhavoc/scenarioforge/pkg/agentic/updater"
	"github.com/finhavoc/scenarioforge/pkg/config"
	"github.com/finhavoc/scenarioforge/pkg/database"
	"github.com/finhavoc/scenarioforge/pkg/domain"
	"github.com/finhavoc/scenarioforge/pkg/engine"
	"github.com/finhavoc/scenarioforge/pkg/forensics"
	"github.com/finhavoc/scenarioforge/pkg/intel"
	"github.com/finhavoc/scenarioforge/pkg/llm"
	"github.com/finhavoc/scenarioforge/pkg/registry"
	"github.com/finhavoc/scenarioforge/pkg/runner"
	"github.com/finhavoc/scenarioforge/pkg/statestore"
	"github.com/finhavoc/scenarioforge/pkg/version"
	"github.com/finhavoc/scenarioforge/pkg/workflow"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	maxConcurrent := flag.Int("max-concurrent", 4, "Maximum number of scenario runs executing at once")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Full())
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("usage: scenarioforge <seed|generate|decide|list|show|logs|status|compare> [args...]")
	}

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
	}

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("error closing database client: %v", err)
		}
	}()

	store := statestore.New(dbClient.Client)
	e, rnr, cleanup := buildEngine(cfg, store, *maxConcurrent)
	defer cleanup()

	command, rest := args[0], args[1:]
	if err := dispatch(ctx, dbClient, store, e, rnr, command, rest); err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

// buildEngine wires the agentic layer, workflow controller, and engine
// facade over the already-connected database client. The returned cleanup
// closes everything that needs an explicit shutdown.
func buildEngine(cfg *config.Config, store *statestore.Store, maxConcurrent int) (*engine.Engine, *runner.Runner, func()) {
	// Embedding generation for TTP similarity search is out of scope
	// (pkg/intel's VectorStore assumes a pre-populated collection and an
	// embed callback this entrypoint doesn't own); the curated fallback
	// always serves TTP requests here.
	intelProvider := intel.New(nil)

	llmClient, err := llm.NewGRPCClient(getEnv("LLM_ADDR", "localhost:50051"), cfg.LLMModel)
	if err != nil {
		log.Fatalf("failed to configure LLM client: %v", err)
	}

	forensicLog, err := forensics.Open(cfg.ForensicLogPath)
	if err != nil {
		log.Fatalf("failed to open forensic log %s: %v", cfg.ForensicLogPath, err)
	}

	mgr := manager.New(llmClient)
	gen := generator.New(llmClient)
	mode := domain.ModeThesis
	if cfg.Defaults != nil && cfg.Defaults.Mode != "" {
		mode = domain.Mode(cfg.Defaults.Mode)
	}
	crit := critic.New(llmClient, mode, cfg.ComplianceStandards(), forensicLog)
	upd := updater.New(store, forensicLog)

	controller := workflow.New(store, intelProvider, mgr, gen, crit, upd, forensicLog)
	reg := registry.New()
	rnr := runner.New(maxConcurrent)

	eng := engine.New(controller, reg, rnr, cfg.DefaultMaxIterations(), cfg.ComplianceStandards())

	cleanup := func() {
		if err := llmClient.Close(); err != nil {
			log.Printf("error closing llm client: %v", err)
		}
		if err := forensicLog.Close(); err != nil {
			log.Printf("error closing forensic log: %v", err)
		}
	}
	return eng, rnr, cleanup
}

func dispatch(ctx context.Context, dbClient *database.Client, store *statestore.Store, e *engine.Engine, rnr *runner.Runner, command string, args []string) error {
	switch command {
	case "seed":
		return cmdSeed(ctx, store)
	case "generate":
		return cmdGenerate(ctx, e, args)
	case "decide":
		return cmdDecide(ctx, e, args)
	case "list":
		return cmdList(e)
	case "show":
		return cmdShow(e, args)
	case "logs":
		return cmdLogs(e, args)
	case "status":
		return cmdStatus(ctx, dbClient, rnr)
	case "compare":
		return cmdCompare(ctx, e, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// cmdSeed loads the canonical 40-entity enterprise template into the state
// store. It predates any scenario run, so it talks to the store directly
// rather than through the engine facade (spec.md §6 scopes that surface to
// generate_scenario/supply_decision/list_scenarios/get_scenario/
// get_scenario_logs, not infrastructure provisioning).
func cmdSeed(ctx context.Context, store *statestore.Store) error {
	n, err := store.SeedInfrastructure(ctx, statestore.EnterpriseTemplate())
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d entities\n", n)
	return nil
}

// statusReport combines database connectivity/pool stats with the runner's
// current concurrency utilization, for operators checking a running
// instance without a dedicated monitoring stack. Only the engine's own
// components are checked, not the opaque LLM/TTP backends (spec.md §1
// treats those as external collaborators).
type statusReport struct {
	Version  string                 `json:"version"`
	Database *database.HealthStatus `json:"database"`
	Runner   runner.Health          `json:"runner"`
}

func cmdStatus(ctx context.Context, dbClient *database.Client, rnr *runner.Runner) error {
	dbHealth, err := database.Health(ctx, dbClient.DB())
	if err != nil {
		log.Printf("database health check failed: %v", err)
	}
	return printJSON(statusReport{Version: version.Full(), Database: dbHealth, Runner: rnr.Health()})
}

// cmdCompare runs the legacy/thesis A/B comparison (spec.md §1(d), Scenario
// E5) and reports hallucinations_prevented for a given scenario_type.
func cmdCompare(ctx context.Context, e *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	maxIterations := fs.Int("max-iterations", 0, "generation budget (0 = system default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: compare <scenario_type> [flags]")
	}

	cmp, err := e.CompareModes(ctx, domain.ScenarioType(fs.Arg(0)), *maxIterations, nil)
	if err != nil {
		return err
	}
	return printJSON(cmp)
}

func cmdGenerate(ctx context.Context, e *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	scenarioID := fs.String("id", "", "scenario id (generated if omitted)")
	maxIterations := fs.Int("max-iterations", 0, "generation budget (0 = system default)")
	mode := fs.String("mode", "thesis", "legacy or thesis")
	interactive := fs.Bool("interactive", false, "suspend at decision points")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: generate <scenario_type> [flags]")
	}

	result, err := e.GenerateScenario(ctx, domain.ScenarioType(fs.Arg(0)), *scenarioID, *maxIterations, domain.Mode(*mode), *interactive, nil)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func cmdDecide(ctx context.Context, e *engine.Engine, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: decide <scenario_id> <choice_id>")
	}
	result, err := e.SupplyDecision(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return printJSON(result)
}

func cmdList(e *engine.Engine) error {
	return printJSON(e.ListScenarios())
}

func cmdShow(e *engine.Engine, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: show <scenario_id>")
	}
	result, err := e.GetScenario(args[0])
	if err != nil {
		return err
	}
	return printJSON(result)
}

func cmdLogs(e *engine.Engine, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: logs <scenario_id>")
	}
	logs, err := e.GetScenarioLogs(args[0])
	if err != nil {
		return err
	}
	return printJSON(logs)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
