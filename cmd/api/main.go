package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	zLog "github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	langChainPrompts "github.com/tmc/langchaingo/prompts"

	"go-agentplan/internal/api"
	"go-agentplan/internal/orchestration"
	"go-agentplan/pkg/config"
	"go-agentplan/pkg/health"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/memory/buffer"
	"go-agentplan/pkg/memory/gormstore"
	"go-agentplan/pkg/metrics"
	"go-agentplan/pkg/prompts"
)

// expects OPENAI_API_KEY in the environment
func main() {
	configPath := flag.String("config", "", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}
	if err := logger.NewGlobal(cfg.Logging.Level, cfg.Logging.Pretty); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}
	zLog.Info().Msg("starting server")

	var store memory.Store
	if cfg.Database.Type == "" {
		zLog.Warn().Msg("no database configured, state is held in memory only")
		store = buffer.New()
	} else {
		gs, err := gormstore.Open(cfg.Database)
		if err != nil {
			zLog.Panic().Err(err).Msg("failed to open database")
		}
		store = gs
	}

	llm, err := openai.New(openai.WithModel(cfg.LLM.Model))
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to initialize llm client")
	}
	plannerChain := chains.NewLLMChain(llm, langChainPrompts.NewPromptTemplate(prompts.PlannerTemplate, []string{"Task", "Agents"}))
	actionChain := chains.NewLLMChain(llm, langChainPrompts.NewPromptTemplate(prompts.ActionTemplate, []string{"SystemMessage", "Transcript", "Action", "Tools"}))

	system := actor.NewActorSystem().Root
	registry, err := orchestration.NewRegistry(system, orchestration.Deps{
		Store:        store,
		Recorder:     metrics.NewRecorder(""),
		PlannerChain: plannerChain,
		ActionChain:  actionChain,
		CallOpts:     []chains.ChainCallOption{chains.WithTemperature(cfg.LLM.Temperature)},
	})
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to build session registry")
	}

	checker := health.NewChecker(cfg.Health.BypassParam)
	checker.Register("memory", store.Ping)

	app := api.New(cfg.Server.Addr(), system, registry, store, checker)

	go func() {
		err := app.Start()
		if err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}
	registry.CloseAll()
	if err := store.Close(); err != nil {
		zLog.Error().Err(err).Msg("failed to close store")
	}

	zLog.Info().Msg("server exiting")
}
