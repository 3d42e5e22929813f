package database

// NewsRepository defines the storage contract the ingestion pipeline depends
// on: existence lookup by the dedup key, insert with a unique-constraint
// backstop, and paged retrieval.
type NewsRepository interface {
	GetBySourceURL(sourceURL string) (*News, error)
	Insert(item NewsItem) (*News, error)
	GetNewsCount(sourceKind string) (int, error)
	GetNewsPage(sourceKind string, limit, offset int) ([]News, error)
}
