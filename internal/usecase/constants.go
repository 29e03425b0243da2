package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultReversalConcurrency bounds how many accounts a document reversal repairs at once
	DefaultReversalConcurrency = 8

	// DefaultStatementPageSize is the number of statement rows per rendered page
	DefaultStatementPageSize = 20

	// reconcileBatchSize is the page size used when walking all accounts
	reconcileBatchSize = 100
)
