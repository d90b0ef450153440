// cmd/aio-crawler/work.go
package main

import (
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	crawlerrors "github.com/leih66181-lang/aio-crawler/internal/errors"
	"github.com/leih66181-lang/aio-crawler/internal/fetch"
	"github.com/leih66181-lang/aio-crawler/internal/log"
	"github.com/leih66181-lang/aio-crawler/internal/progress"
	"github.com/leih66181-lang/aio-crawler/internal/queue"
	"github.com/leih66181-lang/aio-crawler/internal/store"
	"github.com/leih66181-lang/aio-crawler/internal/worker"
)

func newWorkCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Drain the queue, fetch URLs, and persist results (the worker pool)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(v)
			logger := log.New(cfg.Debug)
			printer := progress.New(os.Stdout)

			ctx := cmd.Context()

			q, err := queue.New(cfg.RedisURL)
			if err != nil {
				return err
			}
			defer q.Close()

			mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
			if err != nil {
				return crawlerrors.New(crawlerrors.KindStore, "connecting to document store failed", err)
			}
			defer mongoClient.Disconnect(ctx)

			docStore := store.NewMongoStore(mongoClient, cfg.MongoDBPrefix)
			writer := store.NewWriter(docStore, cfg.MongoSplitThreshold, cfg.BatchSize, logger)
			fetcher := fetch.New(cfg, logger)

			stats := &worker.Stats{}
			items := make(chan store.WriteItem, cfg.BatchSize*2)

			loops := make([]*worker.Loop, cfg.Concurrency)
			for i := range loops {
				loops[i] = worker.NewLoop(q, fetcher, items, stats, cfg, logger, printer)
			}
			pool := worker.NewPool(loops, q, cfg, stats, printer)

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				writer.Run(ctx, items)
			}()

			pool.Run(ctx, items)
			wg.Wait()

			totals := writer.Totals()
			logger.Infof("run complete: %d successes, %d failures persisted", totals.SuccessesInserted, totals.FailuresInserted)
			return nil
		},
	}
}
