package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicate is returned by Insert when the source_url unique index rejects
// the row. It is the authoritative guard against the check-then-insert race.
var ErrDuplicate = errors.New("news item with this source URL already exists")

var _ NewsRepository = (*NewsRepo)(nil)

// NewsRepo handles database operations for news records
type NewsRepo struct {
	db *DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *DB) *NewsRepo {
	return &NewsRepo{db: db}
}

// GetBySourceURL returns the news record with the given source URL, or nil
// when none exists
func (r *NewsRepo) GetBySourceURL(sourceURL string) (*News, error) {
	row := r.db.QueryRow(`
		SELECT id, title, content, summary, why_it_matters,
		       COALESCE(source_url, ''), source_kind, COALESCE(source_name, ''),
		       COALESCE(image_url, ''), COALESCE(created_by, ''), created_at
		FROM news
		WHERE source_url = ?
	`, sourceURL)

	var item News
	err := scanNews(row, &item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news by source URL: %w", err)
	}

	return &item, nil
}

// Insert stores a news record and returns it with the assigned ID and
// creation time. A unique constraint violation on source_url is reported
// as ErrDuplicate.
func (r *NewsRepo) Insert(item NewsItem) (*News, error) {
	var id int64
	var createdAt time.Time

	err := r.db.QueryRow(`
		INSERT INTO news (
			title, content, summary, why_it_matters,
			source_url, source_kind, source_name, image_url, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at
	`, item.Title, item.Content, item.Summary, item.WhyItMatters,
		nullable(item.SourceURL), item.SourceKind, nullable(item.SourceName),
		nullable(item.ImageURL), nullable(item.CreatedBy)).Scan(&id, &createdAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert news: %w", err)
	}

	return &News{
		ID:           id,
		Title:        item.Title,
		Content:      item.Content,
		Summary:      item.Summary,
		WhyItMatters: item.WhyItMatters,
		SourceURL:    item.SourceURL,
		SourceKind:   item.SourceKind,
		SourceName:   item.SourceName,
		ImageURL:     item.ImageURL,
		CreatedBy:    item.CreatedBy,
		CreatedAt:    createdAt,
	}, nil
}

// GetNewsCount returns the number of news records, optionally filtered by
// source kind
func (r *NewsRepo) GetNewsCount(sourceKind string) (int, error) {
	query := "SELECT COUNT(*) FROM news"
	args := []interface{}{}

	if sourceKind != "" {
		query += " WHERE source_kind = ?"
		args = append(args, sourceKind)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get news count: %w", err)
	}

	return count, nil
}

// GetNewsPage returns a page of news records ordered by creation time
// descending, optionally filtered by source kind
func (r *NewsRepo) GetNewsPage(sourceKind string, limit, offset int) ([]News, error) {
	query := `
		SELECT id, title, content, summary, why_it_matters,
		       COALESCE(source_url, ''), source_kind, COALESCE(source_name, ''),
		       COALESCE(image_url, ''), COALESCE(created_by, ''), created_at
		FROM news`
	args := []interface{}{}

	if sourceKind != "" {
		query += " WHERE source_kind = ?"
		args = append(args, sourceKind)
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get news page: %w", err)
	}
	defer rows.Close()

	var items []News
	for rows.Next() {
		var item News
		if err := scanNews(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating news rows: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNews(row rowScanner, item *News) error {
	return row.Scan(
		&item.ID, &item.Title, &item.Content, &item.Summary, &item.WhyItMatters,
		&item.SourceURL, &item.SourceKind, &item.SourceName,
		&item.ImageURL, &item.CreatedBy, &item.CreatedAt,
	)
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
