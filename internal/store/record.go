// internal/store/record.go
package store

import "time"

// SuccessRecord is written to the "pages" collection of a task's shard.
// Exactly one of HTML / HTMLLen is populated, depending on light mode.
type SuccessRecord struct {
	ID         string    `bson:"_id"`
	URL        string    `bson:"url"`
	Host       string    `bson:"host"`
	HTTPStatus int       `bson:"http_status"`
	CrawledAt  time.Time `bson:"crawl_timestamp"`
	HTML       string    `bson:"html,omitempty"`
	HTMLLen    int       `bson:"html_len,omitempty"`
}

// FailureRecord is written to the "failed_tasks" collection of a
// task's shard. Status is either a decimal HTTP status code or the
// sentinel "ERR" when no response was ever obtained.
type FailureRecord struct {
	TaskID   string    `bson:"task_id"`
	URL      string    `bson:"url"`
	Host     string    `bson:"host"`
	Status   string    `bson:"status"`
	FailedAt time.Time `bson:"failed_at"`
	Rounds   int       `bson:"rounds"`
}
