// cmd/aio-crawler/root.go
//
// The CLI binds every Configuration-table key as a persistent flag on
// the root command, into the same viper instance internal/config uses
// for its AIO_-prefixed environment variables and defaults — flags
// take precedence, env vars next, defaults last.
package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	"github.com/leih66181-lang/aio-crawler/internal/version"
)

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:     "aio-crawler",
		Short:   "Host-fair distributed web crawler",
		Version: version.Version,
	}

	bindConfigFlags(root, v)

	root.AddCommand(newSeedCmd(v))
	root.AddCommand(newWorkCmd(v))
	return root
}

func bindConfigFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()

	flags.String("csv-file", "", "input CSV path")
	flags.Int("test-limit", 0, "cap on rows ingested (0 = unbounded)")
	flags.String("redis-url", "", "queue server endpoint")
	flags.String("task-list", "", "queue key")
	flags.Int("chunk-size", 0, "master interleave window")
	flags.Int("pipeline-batch", 0, "per-push item count")
	flags.Int("host-take-per-round", 0, "items drawn per interleaver round")
	flags.Int64("interleave-seed", 0, "interleaver RNG seed (0 = random)")
	flags.Int("concurrency", 0, "worker count")
	flags.Int("connect-limit", 0, "overall connection cap")
	flags.Int("limit-per-host", 0, "connection cap per authority")
	flags.Duration("timeout", 0, "per-request timeout, covering the whole request including the body read")
	flags.Int("batch-pop", 0, "items per pop call")
	flags.Duration("brpop-timeout", 0, "pop wait")
	flags.Duration("idle-quit-after", 0, "worker idle exit")
	flags.Int("print-every", 0, "attempts between progress lines")
	flags.Int("max-retries", 0, "attempt cap")
	flags.String("mongo-uri", "", "document store endpoint")
	flags.String("mongo-db-prefix", "", "shard database name prefix")
	flags.Int64("mongo-split-threshold", 0, "ids per shard")
	flags.Int("batch-size", 0, "writer flush threshold")
	flags.Bool("light-mode", false, "store body length instead of body text")
	flags.Int64("run-id", 0, "id prefix (0 disables)")
	flags.Bool("run-id-auto", false, "derive a run id from a generated uuid when run-id is 0")
	flags.Bool("debug", false, "enable debug logging")

	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}
