// Command server is the clearinghouse's HTTP entrypoint: loads
// configuration and the database connection, wires every domain service,
// and serves the gin-based API (§6), mirroring the shape of the teacher's
// cmd/tarsy/main.go.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/wex-clearinghouse/core/pkg/api"
	"github.com/wex-clearinghouse/core/pkg/clearing"
	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/engagement"
	"github.com/wex-clearinghouse/core/pkg/geocode"
	"github.com/wex-clearinghouse/core/pkg/llm"
	"github.com/wex-clearinghouse/core/pkg/scheduler"
	"github.com/wex-clearinghouse/core/pkg/sms"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: Could not load %s file: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	ctx := context.Background()

	cfg, err := config.Initialize(*configDir)
	if err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	log.Printf("Starting clearinghouse")
	log.Printf("HTTP Port: %s", cfg.Server.Port)
	log.Printf("Config Directory: %s", *configDir)

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("Error closing database client: %v", err)
		}
	}()
	log.Println("connected to PostgreSQL database")

	// Repositories.
	companies := database.NewCompanyRepository(dbClient)
	users := database.NewUserRepository(dbClient)
	buyerNeeds := database.NewBuyerNeedRepository(dbClient)
	warehouses := database.NewWarehouseRepository(dbClient)
	truthCores := database.NewTruthCoreRepository(dbClient)
	matches := database.NewMatchRepository(dbClient)
	engagements := database.NewEngagementRepository(dbClient)
	engagementAgreements := database.NewEngagementAgreementRepository(dbClient)
	dlaTokens := database.NewDLATokenRepository(dbClient)
	marketRates := database.NewMarketRateCacheRepository(dbClient)
	toggles := database.NewToggleHistoryRepository(dbClient)
	supplierAgreements := database.NewSupplierAgreementRepository(dbClient)
	memories := database.NewContextualMemoryRepository(dbClient)
	questions := database.NewPropertyQuestionRepository(dbClient)
	knowledge := database.NewPropertyKnowledgeEntryRepository(dbClient)
	payments := database.NewPaymentRecordRepository(dbClient)
	smsStates := database.NewSMSConversationStateRepository(dbClient)

	// Domain services.
	apiKey := os.Getenv(cfg.LLM.APIKeyEnv)
	llmClient := llm.NewClient(cfg.LLM, apiKey)

	clearingEngine := clearing.NewEngine(
		buyerNeeds, warehouses, truthCores, matches, memories, dlaTokens, marketRates,
		llmClient, cfg.MCDAWeights, cfg.UseTypeMatrix, cfg.Pricing, cfg.DLA,
	)
	activator := clearing.NewActivator(dlaTokens, warehouses, truthCores, supplierAgreements, memories, matches, buyerNeeds)
	machine := engagement.NewMachine(engagements, engagementAgreements, cfg.Transitions)

	geocodeProvider := geocode.NewCensusProvider(cfg.Geocode.ProviderBaseURL, time.Duration(cfg.Geocode.TimeoutSeconds)*time.Second)
	geocodeClient := geocode.New(geocodeProvider, cfg.Geocode, cfg.SearchLimiter)

	tools := &sms.Tools{
		Geocode: geocodeClient, Clearing: clearingEngine, Engagements: machine,
		BuyerNeeds: buyerNeeds, Matches: matches, Warehouses: warehouses, TruthCores: truthCores,
		Questions: questions, Knowledge: knowledge, EngagementRepo: engagements,
	}
	orchestrator := sms.NewOrchestrator(smsStates, tools, llmClient)

	jobs := scheduler.NewJobs(scheduler.Jobs{
		Engagements: engagements, PaymentRecords: payments, Questions: questions, Knowledge: knowledge,
		DLATokens: dlaTokens, BuyerNeeds: buyerNeeds, Warehouses: warehouses,
		Machine: machine, Activator: activator, Pricing: cfg.Pricing,
	})
	sched, err := scheduler.New(cfg.Scheduler, jobs)
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	log.Println("background scheduler started")

	jwtSecret := []byte(getEnv("JWT_SECRET", "dev-secret-change-me"))

	server := api.NewServer(api.Dependencies{
		JWTSecret: jwtSecret, Transitions: cfg.Transitions,
		Companies: companies, Users: users, BuyerNeeds: buyerNeeds, Warehouses: warehouses,
		TruthCores: truthCores, Matches: matches, Engagements: engagements, DLATokens: dlaTokens,
		MarketRates: marketRates, Toggles: toggles, SupplierAgr: supplierAgreements,
		ClearingEngine: clearingEngine, Activator: activator, Machine: machine,
		GeocodeClient: geocodeClient, Orchestrator: orchestrator,
	}, slog.Default())

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router(),
	}

	log.Printf("HTTP server listening on :%s", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
