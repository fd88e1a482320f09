// Command rehot re-stamps every post's stored hot score from its counters.
// Run it after changing the ranking formula.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"isitjustme/internal/config"
	"isitjustme/internal/db"
	"isitjustme/internal/services"

	"github.com/spf13/cobra"
)

var (
	batchSize int
	timeout   time.Duration

	rootCmd = &cobra.Command{
		Use:   "rehot",
		Short: "Recompute the stored hot score of every post",
		Args:  cobra.NoArgs,
		RunE:  runRehot,
	}
)

func init() {
	rootCmd.Flags().IntVar(&batchSize, "batch", 500, "posts per batch")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "abort after this long")
}

func runRehot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	conn := db.Init(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	start := time.Now()
	n, err := services.NewRankingService(conn).Rebuild(ctx, batchSize)
	if err != nil {
		log.Printf("hot score rebuild stopped after %d posts", n)
		return err
	}
	log.Printf("hot score rebuild finished: %d posts in %s", n, time.Since(start).Round(time.Millisecond))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
