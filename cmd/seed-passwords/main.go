// Команда seed-passwords устанавливает один пароль администраторам перечисленных школ.
//
//	seed-passwords -schools S001,S002 -password 'secret'
//
// Пароль можно передать через SEED_PASSWORD. Код выхода ненулевой,
// если хотя бы одной школе пароль установить не удалось.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/magabrotheeeer/school-fees/internal/config"
	"github.com/magabrotheeeer/school-fees/internal/lib/logger"
	seedservice "github.com/magabrotheeeer/school-fees/internal/services/seed"
	"github.com/magabrotheeeer/school-fees/internal/storage/tablestore"
)

func main() {
	schools := flag.String("schools", "S001,S002,S003,S004", "comma-separated school ids")
	plaintext := flag.String("password", os.Getenv("SEED_PASSWORD"), "password to set (or SEED_PASSWORD)")
	flag.Parse()

	log := logger.Setup(os.Getenv("ENV"))

	store, err := config.LoadStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read config: %s\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeder := seedservice.NewSeeder(tablestore.NewFromConfig(*store), log)
	results, err := seeder.Seed(ctx, splitIDs(*schools), *plaintext)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %s\n", err)
		os.Exit(2)
	}

	failed := 0
	for _, res := range results {
		if res.OK() {
			fmt.Printf("%s: password updated\n", res.SchoolID)
			continue
		}
		failed++
		fmt.Printf("%s: FAILED: %s\n", res.SchoolID, res.Err)
	}
	fmt.Printf("%d updated, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
