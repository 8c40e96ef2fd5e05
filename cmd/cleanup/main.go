package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/qs3c/api_access_gate/config"
	"github.com/qs3c/api_access_gate/internal/database"
	"github.com/qs3c/api_access_gate/internal/repository"
	"github.com/qs3c/api_access_gate/internal/service"
)

var (
	configPath = flag.String("config", "config.yaml", "config file path")
	dryRun         = flag.Bool("dry-run", true, "Dry run mode, only count stale rows")
	retainDays = flag.Int("retain-days", 90, "Days to keep per-endpoint usage rows after their last access")
)

// 清理长期未访问的调用明细。订阅计数不受影响
func main() {
	flag.Parse()

	log.Println("Starting usage ledger cleanup...")
	log.Printf("Mode: dry-run=%v, retain-days=%d", *dryRun, *retainDays)

	if *retainDays < 1 {
		log.Fatalf("retain-days must be positive, got %d", *retainDays)
	}

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	usageService := service.NewUsageService(repository.NewUsageRepository(db), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -*retainDays)
	count, err := usageService.PruneStale(ctx, cutoff, *dryRun)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("Cutoff: %s", cutoff.Format(time.RFC3339))
	if *dryRun {
		log.Printf("Stale rows: %d", count)
		log.Println("DRY RUN MODE - No rows were deleted, run with -dry-run=false to delete")
	} else {
		log.Printf("Deleted rows: %d", count)
	}
	log.Println(strings.Repeat("=", 60))
}
