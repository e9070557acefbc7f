package domain

import "context"

// DetectorPort answers language questions about text
type DetectorPort interface {
	Language(ctx context.Context, in LanguageInput) (LanguageOutput, error)
	Frequent(ctx context.Context, in FrequentInput) (FrequentOutput, error)
	Batch(ctx context.Context, in BatchInput) (BatchOutput, error)
	Spans(ctx context.Context, in SpansInput) (SpansOutput, error)
}

// StatsPort exposes result cache counters to other modules
type StatsPort interface {
	CacheStats() CacheStats
}
