// cmd/aio-crawler/seed.go
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	crawlerrors "github.com/leih66181-lang/aio-crawler/internal/errors"
	"github.com/leih66181-lang/aio-crawler/internal/log"
	"github.com/leih66181-lang/aio-crawler/internal/master"
	"github.com/leih66181-lang/aio-crawler/internal/progress"
	"github.com/leih66181-lang/aio-crawler/internal/queue"
)

func newSeedCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Read the input URL list and seed the queue (the master)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(v)
			logger := log.New(cfg.Debug)
			printer := progress.New(os.Stdout)

			q, err := queue.New(cfg.RedisURL)
			if err != nil {
				return err
			}
			defer q.Close()

			printer.RunStatus("seeding started")
			seeder := master.New(q, cfg, logger, printer)
			total, err := seeder.Run(cmd.Context())
			if err != nil {
				return crawlerrors.New(crawlerrors.KindSeed, "seeding failed", err)
			}
			logger.Infof("seeded %d entries", total)
			return nil
		},
	}
}
