// cmd/tools/skill-extract/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"talentmatch-workers/internal/common/config"
	"talentmatch-workers/internal/common/database"
	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/corpus"
	"talentmatch-workers/internal/engine/contamination"
	"talentmatch-workers/internal/engine/domaindetect"
	"talentmatch-workers/internal/engine/extraction"
	"talentmatch-workers/internal/models"
)

func main() {
	text := flag.String("text", "", "Text to extract skills from")
	file := flag.String("file", "", "Read extraction text from a file instead of -text")
	domain := flag.String("domain", "", "Force a domain (technology, pharmaceutical, finance, healthcare, manufacturing); auto-detected when empty")
	maxResults := flag.Int("max", 0, "Maximum number of skills to return (0 uses the configured default)")
	minScore := flag.Float64("min", 0, "Minimum normalized match score (0 uses the configured default)")
	timeout := flag.Duration("timeout", 15*time.Second, "Extraction timeout")
	flag.Parse()

	if *text == "" && *file == "" {
		fmt.Println("Error: one of -text or -file is required.")
		flag.Usage()
		os.Exit(1)
	}

	input := *text
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", *file, err)
			os.Exit(1)
		}
		input = string(data)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewNoOpLogger()

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		fmt.Printf("Error connecting to Elasticsearch: %v\n", err)
		os.Exit(1)
	}

	skillCorpus := corpus.NewElasticCorpus(esClient.Client, cfg.Extraction.Index, cfg.Extraction.CorpusVersion)
	filter := contamination.NewFilter(contamination.NewTable(contamination.DefaultGuards(), log), log)
	extractor := extraction.New(skillCorpus, nil, filter, log)

	dom := models.Domain(*domain)
	if dom == "" {
		dom = domaindetect.Detect(input)
	}

	limit := cfg.Extraction.MaxResults
	if *maxResults > 0 {
		limit = *maxResults
	}
	cutoff := cfg.Extraction.MinScore
	if *minScore > 0 {
		cutoff = *minScore
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result := extractor.Extract(ctx, input, dom, limit, cutoff)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}
