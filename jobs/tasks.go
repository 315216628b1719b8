// Package jobs runs background work over asynq: the periodic sweep that
// expires quotations past their validity window.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeQuoteExpiry is the task type for the quote expiry sweep.
	TaskTypeQuoteExpiry = "quotes:expire"
)

// QuoteExpiryPayload carries the cutoff for one expiry sweep. A zero AsOf
// means "now" at processing time.
type QuoteExpiryPayload struct {
	AsOf time.Time `json:"as_of,omitempty"`
}

// NewQuoteExpiryTask constructs an Asynq task.
func NewQuoteExpiryTask(payload QuoteExpiryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeQuoteExpiry, data), nil
}
