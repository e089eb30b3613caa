package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"researcher/internal/capability"
	"researcher/internal/config"
	"researcher/internal/core/job"
	"researcher/internal/core/research"
	"researcher/internal/logger"
	"researcher/internal/platform/eino"
	"researcher/internal/platform/fetch"
	"researcher/internal/platform/firecrawl"
	rds "researcher/internal/platform/redis"
	"researcher/internal/platform/scrapecreators"
	tasks "researcher/internal/platform/tasks"
	"researcher/internal/platform/tavily"
	"researcher/internal/server"
	"researcher/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log.Printf("[researcher] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// Capability clients
	searchClient := tavily.New(cfg.TavilyAPIKey)
	firecrawlClient := firecrawl.New(cfg.FirecrawlAPIKey)
	lookupClient := scrapecreators.New(cfg.ScrapeCreatorsAPIKey)
	scrapeChain := capability.ScraperChain{firecrawlClient, fetch.New()}

	einoSvc, err := eino.NewService(eino.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.DefaultLLMModel,
	})
	if err != nil {
		log.Fatalf("failed to initialize Eino service: %v", err)
	}

	// Stage agents and pipeline
	profileAgent := research.NewProfileAgent(searchClient, scrapeChain, einoSvc, lookupClient, cfg.SearchMaxResults)
	newsAgent := research.NewNewsAgent(searchClient, einoSvc, cfg.SearchMaxResults)
	jobsAgent := research.NewJobsAgent(searchClient, einoSvc, firecrawlClient, cfg.SearchMaxResults,
		time.Duration(cfg.ExtractPollSeconds)*time.Second, cfg.ExtractPollAttempts)
	briefAgent := research.NewBriefAgent(einoSvc)
	pipeline := research.NewPipeline(profileAgent, newsAgent, jobsAgent, briefAgent)

	jobSvc := job.NewService(redisSvc)
	runner := job.NewRunner(jobSvc, taskClient, pipeline, cfg)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeResearch, runner.HandleResearchTask)

	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	app := fiber.New(fiber.Config{
		AppName: "Company Researcher",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	deps := server.Dependencies{
		Jobs:   jobSvc,
		Runner: runner,
		Redis:  redisSvc,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	go func() {
		time.Sleep(5 * time.Second)
		healthHandler.SetReady()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
