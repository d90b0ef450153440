// internal/config/config.go
//
// Package config defines the crawler's configuration surface: every
// option in the Configuration table has a default here, and Load()
// resolves the effective value from (in priority order) command-line
// flags, environment variables, and these defaults, via
// github.com/spf13/viper. No config file is read.
//
// This package is internal so the shape of Config can evolve without
// breaking cmd/aio-crawler's flags or the rest of the module.
package config

import "time"

// Config holds every tunable of the master and worker pipelines.
type Config struct {
	// Input
	CSVFile   string
	TestLimit int // 0 = unbounded

	// Queue server
	RedisURL string
	TaskList string

	// Master seeding
	ChunkSize        int
	PipelineBatch    int
	HostTakePerRound int
	InterleaveSeed   int64 // 0 means "seed from process entropy"

	// Worker / fetch
	Concurrency   int
	ConnectLimit  int
	LimitPerHost  int
	Timeout       time.Duration
	BatchPop      int
	BRPopTimeout  time.Duration
	IdleQuitAfter time.Duration
	PrintEvery    int

	// Retry / terminal classification
	MaxRetries int

	// Document store
	MongoURI            string
	MongoDBPrefix        string
	MongoSplitThreshold int64
	BatchSize           int
	LightMode           bool

	// Run identity
	RunID     int64 // 0 disables run-id prefixing of task ids
	RunIDAuto bool  // derive a non-zero RunID from a generated uuid when RunID == 0

	// Logging
	Debug bool
}

// Default constructs a Config with the defaults tabulated in the
// system's Configuration reference. Load() starts from these and lets
// viper override any field.
func Default() *Config {
	return &Config{
		CSVFile:   defaultCSVFile,
		TestLimit: defaultTestLimit,

		RedisURL: defaultRedisURL,
		TaskList: defaultTaskList,

		ChunkSize:        defaultChunkSize,
		PipelineBatch:    defaultPipelineBatch,
		HostTakePerRound: defaultHostTakePerRound,
		InterleaveSeed:   0,

		Concurrency:   defaultConcurrency,
		ConnectLimit:  defaultConnectLimit,
		LimitPerHost:  defaultLimitPerHost,
		Timeout:       defaultTimeout,
		BatchPop:      defaultBatchPop,
		BRPopTimeout:  defaultBRPopTimeout,
		IdleQuitAfter: defaultIdleQuitAfter,
		PrintEvery:    defaultPrintEvery,

		MaxRetries: defaultMaxRetries,

		MongoURI:            defaultMongoURI,
		MongoDBPrefix:        defaultMongoDBPrefix,
		MongoSplitThreshold: defaultMongoSplitThreshold,
		BatchSize:           defaultBatchSize,
		LightMode:           false,

		RunID:     defaultRunID,
		RunIDAuto: false,

		Debug: false,
	}
}
