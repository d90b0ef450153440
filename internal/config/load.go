// internal/config/load.go
//
// Load resolves the effective Config from defaults, environment
// variables (prefixed AIO_), and any flags already
// bound into the supplied viper instance by the caller (cmd/aio-crawler
// binds cobra flags into the same *viper.Viper before calling Load).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// key names mirror the Configuration table, lowercased.
const (
	keyCSVFile   = "csv_file"
	keyTestLimit = "test_limit"

	keyRedisURL = "redis_url"
	keyTaskList = "task_list"

	keyChunkSize        = "chunk_size"
	keyPipelineBatch    = "pipeline_batch"
	keyHostTakePerRound = "host_take_per_round"
	keyInterleaveSeed   = "interleave_seed"

	keyConcurrency   = "concurrency"
	keyConnectLimit  = "connect_limit"
	keyLimitPerHost  = "limit_per_host"
	keyTimeout       = "timeout"
	keyBatchPop      = "batch_pop"
	keyBRPopTimeout  = "brpop_timeout"
	keyIdleQuitAfter = "idle_quit_after"
	keyPrintEvery    = "print_every"

	keyMaxRetries = "max_retries"

	keyMongoURI            = "mongo_uri"
	keyMongoDBPrefix        = "mongo_db_prefix"
	keyMongoSplitThreshold = "mongo_split_threshold"
	keyBatchSize           = "batch_size"
	keyLightMode           = "light_mode"

	keyRunID     = "run_id"
	keyRunIDAuto = "run_id_auto"
	keyDebug     = "debug"
)

// New constructs a *viper.Viper pre-populated with this package's
// defaults and wired to read AIO_-prefixed environment variables.
// cmd/aio-crawler binds its cobra flags into the returned instance
// before calling Load.
func New() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault(keyCSVFile, d.CSVFile)
	v.SetDefault(keyTestLimit, d.TestLimit)
	v.SetDefault(keyRedisURL, d.RedisURL)
	v.SetDefault(keyTaskList, d.TaskList)
	v.SetDefault(keyChunkSize, d.ChunkSize)
	v.SetDefault(keyPipelineBatch, d.PipelineBatch)
	v.SetDefault(keyHostTakePerRound, d.HostTakePerRound)
	v.SetDefault(keyInterleaveSeed, d.InterleaveSeed)
	v.SetDefault(keyConcurrency, d.Concurrency)
	v.SetDefault(keyConnectLimit, d.ConnectLimit)
	v.SetDefault(keyLimitPerHost, d.LimitPerHost)
	v.SetDefault(keyTimeout, d.Timeout)
	v.SetDefault(keyBatchPop, d.BatchPop)
	v.SetDefault(keyBRPopTimeout, d.BRPopTimeout)
	v.SetDefault(keyIdleQuitAfter, d.IdleQuitAfter)
	v.SetDefault(keyPrintEvery, d.PrintEvery)
	v.SetDefault(keyMaxRetries, d.MaxRetries)
	v.SetDefault(keyMongoURI, d.MongoURI)
	v.SetDefault(keyMongoDBPrefix, d.MongoDBPrefix)
	v.SetDefault(keyMongoSplitThreshold, d.MongoSplitThreshold)
	v.SetDefault(keyBatchSize, d.BatchSize)
	v.SetDefault(keyLightMode, d.LightMode)
	v.SetDefault(keyRunID, d.RunID)
	v.SetDefault(keyRunIDAuto, d.RunIDAuto)
	v.SetDefault(keyDebug, d.Debug)

	v.SetEnvPrefix("AIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the effective configuration out of v.
func Load(v *viper.Viper) *Config {
	runID := v.GetInt64(keyRunID)
	runIDAuto := v.GetBool(keyRunIDAuto)
	if runIDAuto && runID == 0 {
		runID = generatedRunID()
	}

	return &Config{
		CSVFile:   v.GetString(keyCSVFile),
		TestLimit: v.GetInt(keyTestLimit),

		RedisURL: v.GetString(keyRedisURL),
		TaskList: v.GetString(keyTaskList),

		ChunkSize:        v.GetInt(keyChunkSize),
		PipelineBatch:    v.GetInt(keyPipelineBatch),
		HostTakePerRound: v.GetInt(keyHostTakePerRound),
		InterleaveSeed:   v.GetInt64(keyInterleaveSeed),

		Concurrency:   v.GetInt(keyConcurrency),
		ConnectLimit:  v.GetInt(keyConnectLimit),
		LimitPerHost:  v.GetInt(keyLimitPerHost),
		Timeout:       durationOrDefault(v, keyTimeout, defaultTimeout),
		BatchPop:      v.GetInt(keyBatchPop),
		BRPopTimeout:  durationOrDefault(v, keyBRPopTimeout, defaultBRPopTimeout),
		IdleQuitAfter: durationOrDefault(v, keyIdleQuitAfter, defaultIdleQuitAfter),
		PrintEvery:    v.GetInt(keyPrintEvery),

		MaxRetries: v.GetInt(keyMaxRetries),

		MongoURI:            v.GetString(keyMongoURI),
		MongoDBPrefix:        v.GetString(keyMongoDBPrefix),
		MongoSplitThreshold: v.GetInt64(keyMongoSplitThreshold),
		BatchSize:           v.GetInt(keyBatchSize),
		LightMode:           v.GetBool(keyLightMode),

		RunID:     runID,
		RunIDAuto: runIDAuto,
		Debug:     v.GetBool(keyDebug),
	}
}

// durationOrDefault returns key's duration (a time.Duration default or
// an env var / flag string like "10s"), or def when that value is zero
// or negative.
func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	d := v.GetDuration(key)
	if d > 0 {
		return d
	}
	return def
}
