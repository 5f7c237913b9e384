// cmd/match-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talentmatch-workers/internal/audit"
	"talentmatch-workers/internal/common/camunda"
	"talentmatch-workers/internal/common/config"
	"talentmatch-workers/internal/common/database"
	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/common/observability"
	"talentmatch-workers/internal/corpus"
	"talentmatch-workers/internal/embedding"
	"talentmatch-workers/internal/engine/blend"
	"talentmatch-workers/internal/engine/contamination"
	"talentmatch-workers/internal/engine/extraction"
	"talentmatch-workers/internal/engine/gates"
	"talentmatch-workers/internal/engine/scoring"
	"talentmatch-workers/internal/engine/similarity"
	"talentmatch-workers/internal/llm"

	cm "talentmatch-workers/internal/workers/matching/calculate-match"
	es "talentmatch-workers/internal/workers/matching/extract-skills"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting match manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("match-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL (guard table) with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch (skill corpus) with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis (extraction cache) with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Contamination guard table ---
	guardStore := contamination.NewStore(pg.DB)
	guardRows, err := guardStore.LoadGuards(ctx)
	if err != nil || len(guardRows) == 0 {
		if err != nil {
			log.Warn("guard table load failed, using built-in guards", map[string]interface{}{
				"error": err.Error(),
			})
		}
		guardRows = contamination.DefaultGuards()
	}
	guardTable := contamination.NewTable(guardRows, log)
	filter := contamination.NewFilter(guardTable, log)
	zapLog.Info("Contamination guard table loaded", zap.Int("guards", guardTable.Len()))

	// --- Skill corpus over Elasticsearch ---
	skillCorpus := corpus.NewElasticCorpus(esClient.Client, cfg.Extraction.Index, cfg.Extraction.CorpusVersion)

	// --- Extraction cache ---
	cacheTTL := time.Duration(cfg.Extraction.CacheTTL) * time.Second
	var cache extraction.Cache
	if cfg.Extraction.CacheBackend == "redis" {
		cache = extraction.NewRedisCache(redisClient.Client, cacheTTL, log)
	} else {
		cache = extraction.NewMemoryCache(cfg.Extraction.CacheMaxSize, cacheTTL)
	}

	extractor := extraction.New(skillCorpus, cache, filter, log)

	// --- Embedding provider + batch layer ---
	embedClient := embedding.NewClient(
		cfg.APIs.Embedding.BaseURL,
		cfg.APIs.Embedding.ModelID,
		cfg.APIs.Embedding.Dimensions,
		config.GetDuration(cfg.APIs.Embedding.Timeout),
		3,
		log,
	)
	batchEmbedder := similarity.NewBatchEmbedder(
		embedClient,
		cfg.APIs.Embedding.MaxConcurrency,
		cfg.APIs.Embedding.MemoryThresholdMB,
		config.GetDuration(cfg.APIs.Embedding.Timeout),
		log,
	)

	// --- Generative match analysis ---
	var analyzer scoring.Analyzer
	if cfg.APIs.GenAI.BaseURL != "" {
		analyzer = llm.NewClient(
			cfg.APIs.GenAI.BaseURL,
			cfg.APIs.GenAI.APIKey,
			cfg.APIs.GenAI.PromptVersion,
			config.GetDuration(cfg.APIs.GenAI.Timeout),
			cfg.APIs.GenAI.MaxRetries,
			log,
		)
	} else {
		log.Warn("GenAI base URL not configured, scoring will be ML-only", nil)
	}

	// --- Gates, audit, pipeline ---
	gateEngine := gates.New(cfg.Scoring.GateFloor, log)
	auditor := audit.NewWriter(cfg.Audit.Dir, cfg.Audit.Enabled, log)

	pipeline := scoring.New(extractor, batchEmbedder, analyzer, gateEngine, auditor, scoring.Config{
		MaxResults:    cfg.Extraction.MaxResults,
		MinScore:      cfg.Extraction.MinScore,
		Weights:       blend.Weights{ML: cfg.Scoring.MLWeight, LLM: cfg.Scoring.LLMWeight},
		CorpusVersion: skillCorpus.Version(),
		EmbeddingID:   cfg.APIs.Embedding.ModelID,
		CalibrationID: cfg.Scoring.CalibrationID,
	}, log)

	// --- Register workers ---
	manager := camunda.NewManager(zeebeClient, log)

	cmCfg := config.GetWorkerConfig(cfg, cm.TaskType)
	if cmCfg.Enabled {
		handler, err := cm.NewHandler(
			&cm.Config{Timeout: config.GetDuration(cmCfg.Timeout)},
			pipeline, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create calculate-match handler", zap.Error(err))
		}
		manager.Start(camunda.Registration{
			TaskType:      cm.TaskType,
			MaxJobsActive: cmCfg.MaxJobsActive,
			Timeout:       config.GetDuration(cmCfg.Timeout),
			Handler:       handler.Handle,
		})
	}

	esCfg := config.GetWorkerConfig(cfg, es.TaskType)
	if esCfg.Enabled {
		handler := es.NewHandler(
			&es.Config{
				MaxResults: cfg.Extraction.MaxResults,
				MinScore:   cfg.Extraction.MinScore,
				Timeout:    config.GetDuration(esCfg.Timeout),
			},
			extractor, log,
		)
		manager.Start(camunda.Registration{
			TaskType:      es.TaskType,
			MaxJobsActive: esCfg.MaxJobsActive,
			Timeout:       config.GetDuration(esCfg.Timeout),
			Handler:       handler.Handle,
		})
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & metrics server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := esClient.Ping(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"reason": err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	manager.Stop()
	zapLog.Info("Match manager stopped gracefully")
}
