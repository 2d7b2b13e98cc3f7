package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"devforge/internal/database"
	"devforge/internal/llm/client"
	"devforge/internal/pipeline"
	"devforge/internal/planner"
	"devforge/internal/publisher"
	"devforge/internal/services"
	"devforge/internal/synth"
	"devforge/internal/utils"
	"devforge/internal/validator"
)

var (
	version = "0.1.0"
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "devforge",
	Short: "Turn natural-language requests into deployed repositories",
	Long: `devforge plans, generates, publishes and validates small web projects
from plain-language requests.

Typical flow:
  devforge new my-site --request "a landing page for my bakery"
  devforge run my-site "a landing page for my bakery"
  devforge status my-site`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is the per-user data dir)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("devforge version %s\n", version))
}

func exitError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}

// app bundles everything a command needs after wiring.
type app struct {
	svc *services.Services
}

func newApp() (*app, error) {
	if err := utils.LoadEnv(); err != nil && !os.IsNotExist(err) {
		log.Printf("CLI: no .env loaded: %v", err)
	}
	db, err := database.Init(database.Config{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	svc := services.NewServices(db)
	if err := svc.Catalog.Load(); err != nil {
		return nil, err
	}
	return &app{svc: svc}, nil
}

// newController wires the full pipeline for one run. The generator and the
// repository host both depend on credentials, so this happens per command
// rather than at startup.
func (a *app) newController(ctx context.Context, provider string) (*pipeline.Controller, error) {
	settings, err := a.svc.Settings.Get()
	if err != nil {
		return nil, err
	}
	if provider == "" {
		provider = settings.DefaultProvider
	}

	modelName, err := a.svc.Catalog.ResolveModel(provider)
	if err != nil {
		return nil, err
	}
	apiKey, err := a.svc.Keyring.GetApiKey(provider)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for %s; store one or set the environment variable", provider)
	}
	llm, err := client.NewForProvider(ctx, provider, apiKey, modelName)
	if err != nil {
		return nil, err
	}
	generator := client.NewCachedGenerator(llm, 10*time.Minute)

	githubToken, err := a.svc.Keyring.GetApiKey("github")
	if err != nil {
		return nil, err
	}
	host, err := publisher.NewGitHubHost(ctx, githubToken)
	if err != nil {
		return nil, err
	}

	var mirror *publisher.Mirror
	if settings.MirrorDir != "" {
		mirror = publisher.NewMirror(settings.MirrorDir)
	}

	return pipeline.NewController(pipeline.Deps{
		Projects:     a.svc.ProjectRepo,
		Plans:        a.svc.PlanRepo,
		Files:        a.svc.FileRepo,
		Checks:       a.svc.CheckRepo,
		Conversation: a.svc.Conversations,
		Contexts:     a.svc.Contexts,
		Planner:      planner.New(generator),
		Synth:        synth.New(generator, settings.GenWorkers),
		Publisher:    publisher.NewPublisher(host),
		Validator:    validator.NewValidator(a.svc.CheckRepo, validator.DefaultConfig()),
		Mirror:       mirror,
	}), nil
}
