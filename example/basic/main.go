package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/siherrmann/depmatch"
	"github.com/siherrmann/depmatch/core/pipeline"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
)

const record = `http://example.com/tennis

@entity1 won the final against @entity2 at @entity3 .

@placeholder won the title at @entity3

@entity1

@entity1:Roger Federer
@entity2:Rafael Nadal
@entity3:Wimbledon
`

// Parses as produced by a dependency parser, so the example runs without a
// CoreNLP server.
var parses = map[string]string{
	"@entity1 won the final against @entity2 at @entity3 .": "" +
		"1\t@entity1\t_\tPROPN\tNNP\t_\t2\tnsubj\t_\t_\n" +
		"2\twon\twin\tVERB\tVBD\t_\t0\troot\t_\t_\n" +
		"3\tthe\tthe\tDET\tDT\t_\t4\tdet\t_\t_\n" +
		"4\tfinal\tfinal\tNOUN\tNN\t_\t2\tdobj\t_\t_\n" +
		"5\tagainst\tagainst\tADP\tIN\t_\t6\tcase\t_\t_\n" +
		"6\t@entity2\t_\tPROPN\tNNP\t_\t2\tnmod:against\t_\t_\n" +
		"7\tat\tat\tADP\tIN\t_\t8\tcase\t_\t_\n" +
		"8\t@entity3\t_\tPROPN\tNNP\t_\t2\tnmod:at\t_\t_\n" +
		"9\t.\t.\tPUNCT\t.\t_\t2\tpunct\t_\t_\n",
	"@placeholder won the title at @entity3": "" +
		"1\t@placeholder\t_\tNOUN\tNN\t_\t2\tnsubj\t_\t_\n" +
		"2\twon\twin\tVERB\tVBD\t_\t0\troot\t_\t_\n" +
		"3\tthe\tthe\tDET\tDT\t_\t4\tdet\t_\t_\n" +
		"4\ttitle\ttitle\tNOUN\tNN\t_\t2\tdobj\t_\t_\n" +
		"5\tat\tat\tADP\tIN\t_\t6\tcase\t_\t_\n" +
		"6\t@entity3\t_\tPROPN\tNNP\t_\t2\tnmod:at\t_\t_\n",
}

func main() {
	ctx := context.Background()

	// Start a test PostgreSQL container for the annotation cache and match store
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	config := &helper.Configuration{
		LogLevel:        slog.LevelInfo,
		CoreNLPURL:      "http://localhost:9000",
		DependencyKey:   "collapsed-dependencies",
		RequestTimeout:  60 * time.Second,
		CacheBackend:    helper.CacheBackendPostgres,
		MemoryCacheSize: 16,
		Workers:         2,
		StoreMatches:    true,
		Database: &helper.DatabaseConfiguration{
			Host:     "localhost",
			Port:     dbPort,
			Database: "database",
			Username: "user",
			Password: "password",
			Schema:   "public",
			SSLMode:  "disable",
		},
	}

	d, err := depmatch.New(config, model.DefaultMatchConfig())
	if err != nil {
		log.Fatalf("Failed to create depmatch: %v", err)
	}
	defer d.Close()

	d.SetPipeline(pipeline.NewPipeline(pipeline.NewCoNLLUAnnotator(parses)))

	dir, err := os.MkdirTemp("", "depmatch-example")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "0001.question")
	if err := os.WriteFile(path, []byte(record), 0o644); err != nil {
		log.Fatalf("Failed to write record: %v", err)
	}

	prediction, err := d.Predict(ctx, path)
	if err != nil {
		log.Fatalf("Failed to predict: %v", err)
	}

	fmt.Printf("\nMatches of example %s:\n", prediction.ExampleID)
	for _, m := range prediction.Matches {
		fmt.Printf("  %-10s %s\n", m.Marker, m.String())
	}
	for _, c := range prediction.Candidates {
		fmt.Printf("  candidate %s (%s): %d\n", c.Marker, c.Entity, c.Count)
	}
	fmt.Printf("Predicted %s, answer %s, correct: %v\n", prediction.Predicted, prediction.Answer, prediction.Correct())

	stored, err := d.Matches.SelectMatchesByExample(ctx, prediction.ExampleID)
	if err != nil {
		log.Fatalf("Failed to select stored matches: %v", err)
	}
	fmt.Printf("\nStored %d matches for run %s\n", len(stored), d.RunID)
}
