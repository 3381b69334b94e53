package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tripflow-poc/server/internal/core"
	"github.com/tripflow-poc/server/internal/trip"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/repo"
	logx "github.com/tripflow-poc/server/pkg/logger"
	pkgredis "github.com/tripflow-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the planner example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Pipeline configs
	Classifier model.ClassifierModelConfig
	Analyzer   model.AnalyzerModelConfig
	Planner    model.PlannerModelConfig
	Pipeline   model.PipelineConfig
}

func main() {
	fmt.Println("Testing Trip Planning Pipeline...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.EnvironmentFromOS()})

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	// ====================================================
	// Build planner config entirely from env
	ttl, err := time.ParseDuration(envCfg.Pipeline.Run.TTL)
	if err != nil {
		log.Fatalf("Invalid RUN_RECORD_TTL '%s': %v", envCfg.Pipeline.Run.TTL, err)
	}

	planner, err := trip.BuildPlanner(ctx, trip.Config{
		APIKey:          envCfg.APIKey,
		BaseURL:         envCfg.BaseURL,
		ClassifierModel: envCfg.Classifier,
		AnalyzerModel:   envCfg.Analyzer,
		PlannerModel:    envCfg.Planner,
		Pipeline:        envCfg.Pipeline,
		RunRepo:         repo.NewRedisRunRepository(rdb, ttl),
	})
	if err != nil {
		log.Fatalf("Failed to build planner: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Full trip request with budget",
			query:       "Plan me a 5-day trip to Paris in late September. Budget is 2500 EUR for two people, we like museums and food markets, vegetarian friendly please.",
		},
		{
			description: "Short trip with loose constraints",
			query:       "I want 3 days in Tokyo, mid-range hotels, big fan of temples and street food.",
		},
		{
			description: "Out-of-scope request",
			query:       "Can you recommend a good laptop for programming under 1500 USD?",
		},
	}

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: \"%s\"\n", test.query)
		fmt.Println("Processing...")

		state, err := planner.Submit(ctx, test.query, "")
		if err != nil {
			log.Fatalf("Failed to run pipeline for test %d: %v", i+1, err)
		}

		if !state.InScope() {
			fmt.Printf("Declined %d: request classified as out of scope\n", i+1)
		} else if state.Summary != nil {
			fmt.Printf("Summary %d:\n%s\n", i+1, *state.Summary)
		} else {
			fmt.Printf("Run %d finished without a summary\n", i+1)
		}
		fmt.Printf("Total model cost: $%.6f\n", state.TotalCostUSD)
		fmt.Println("─────────────────────────────────────────────")

		// add slight delay between tests for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("All pipeline tests completed!")
}
