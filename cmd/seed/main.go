// Command seed loads a YAML fixture of articles and comment threads into a
// running blog API and prints the threads it created.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/romangod6/blog-api/client"
	"github.com/romangod6/blog-api/internal/seed"
	"github.com/romangod6/blog-api/internal/utils"
)

func main() {
	addr := flag.String("addr", getEnv("BLOG_API_ADDR", "http://localhost:8080"), "API base URL")
	file := flag.String("file", "./data/fixtures.yaml", "fixture file")
	healthTimeout := flag.Duration("health-timeout", 30*time.Second, "how long to wait for the API to become healthy")
	width := flag.Int("width", 60, "preview width in terminal cells")
	flag.Parse()

	logger, err := utils.NewLogger("info", true)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	fixture, err := seed.Load(*file)
	if err != nil {
		sugar.Fatalw("invalid fixture", "file", *file, "error", err)
	}

	api := client.New(*addr)
	ctx := context.Background()

	if err := waitForAPI(ctx, api, *healthTimeout); err != nil {
		sugar.Fatalw("API not available", "addr", *addr, "error", err)
	}

	results, err := seed.Apply(ctx, api, fixture)
	if err != nil {
		sugar.Fatalw("seeding failed", "seeded_articles", len(results), "error", err)
	}

	if err := seed.Render(os.Stdout, results, *width); err != nil {
		sugar.Fatalw("failed to print threads", "error", err)
	}
	sugar.Infow("seeding complete", "articles", len(results))
}

func waitForAPI(ctx context.Context, api *client.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		err := api.Health(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return err
		case <-ticker.C:
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
