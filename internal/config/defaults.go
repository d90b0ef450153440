// internal/config/defaults.go
//
// This file centralizes the default configuration constants listed in
// the system's Configuration reference table. Keeping them separate
// makes it easy to review and adjust the crawler's baseline behavior
// without touching Load or the Config struct itself.
package config

import "time"

const (
	defaultCSVFile   = "google_url.csv"
	defaultTestLimit = 100000

	defaultRedisURL = "redis://localhost:6379/0"
	defaultTaskList = "crawler:tasks"

	defaultChunkSize        = 100000
	defaultPipelineBatch    = 10000
	defaultHostTakePerRound = 1

	defaultConcurrency   = 300
	defaultConnectLimit  = 300
	defaultLimitPerHost  = 6
	defaultTimeout       = 10 * time.Second
	defaultBatchPop      = 200
	defaultBRPopTimeout  = 5 * time.Second
	defaultIdleQuitAfter = 300 * time.Second
	defaultPrintEvery    = 1000

	defaultMaxRetries = 5

	defaultMongoURI            = "mongodb://localhost:27017"
	defaultMongoDBPrefix        = "crawler_shard_"
	defaultMongoSplitThreshold = 500000
	defaultBatchSize           = 200

	defaultRunID     = 0
	defaultRunIDAuto = false
)

// CompletionFlagKey is the queue-server key the seeder sets once done
// enqueuing and the workers poll to detect "no more entries coming".
const CompletionFlagKey = "crawler:tasks:enqueue_complete"
