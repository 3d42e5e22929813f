package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsbrief/app/database"
	"newsbrief/app/extractor"
	"newsbrief/app/summarizer"
)

// MockNewsRepository implements a simple in-memory store for testing
type MockNewsRepository struct {
	existing   map[string]*database.News
	inserted   []database.NewsItem
	insertErr  error
	total      int
	page       []database.News
	gotLimit   int
	gotOffset  int
	gotKind    string
	countKind  string
}

func NewMockNewsRepository() *MockNewsRepository {
	return &MockNewsRepository{existing: make(map[string]*database.News)}
}

func (m *MockNewsRepository) GetBySourceURL(sourceURL string) (*database.News, error) {
	return m.existing[sourceURL], nil
}

func (m *MockNewsRepository) Insert(item database.NewsItem) (*database.News, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.inserted = append(m.inserted, item)
	return &database.News{
		ID:           int64(len(m.inserted)),
		Title:        item.Title,
		Content:      item.Content,
		Summary:      item.Summary,
		WhyItMatters: item.WhyItMatters,
		SourceURL:    item.SourceURL,
		SourceKind:   item.SourceKind,
		SourceName:   item.SourceName,
		ImageURL:     item.ImageURL,
		CreatedBy:    item.CreatedBy,
		CreatedAt:    time.Now(),
	}, nil
}

func (m *MockNewsRepository) GetNewsCount(sourceKind string) (int, error) {
	m.countKind = sourceKind
	return m.total, nil
}

func (m *MockNewsRepository) GetNewsPage(sourceKind string, limit, offset int) ([]database.News, error) {
	m.gotKind = sourceKind
	m.gotLimit = limit
	m.gotOffset = offset
	return m.page, nil
}

// MockExtractor returns a fixed article or a configured error
type MockExtractor struct {
	article *extractor.Article
	err     error
	calls   int
}

func (m *MockExtractor) Run(ctx context.Context, url string) (*extractor.Article, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.article, nil
}

// MockSummarizer returns a fixed triple or a configured error
type MockSummarizer struct {
	err error
}

func (m *MockSummarizer) Run(ctx context.Context, text string) (*summarizer.Summary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &summarizer.Summary{Title: "AI Title", Summary: "AI summary.", WhyItMatters: "AI significance."}, nil
}

func newTestService(repo *MockNewsRepository, mockExtractor *MockExtractor, mockSummarizer *MockSummarizer) *Service {
	return NewService(repo, mockExtractor, mockSummarizer, nil, nil)
}

const manualContent = "A sufficiently long manual article body describing an event in enough detail for the summarizer to produce a meaningful result."

func TestService_CreateNews_Manual(t *testing.T) {
	repo := NewMockNewsRepository()
	mockExtractor := &MockExtractor{}
	service := newTestService(repo, mockExtractor, &MockSummarizer{})

	news, err := service.CreateNews(context.Background(), CreateInput{Content: manualContent}, "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if news.SourceKind != database.SourceManual {
		t.Errorf("Expected source kind %q, got %q", database.SourceManual, news.SourceKind)
	}
	if news.SourceURL != "" {
		t.Errorf("Expected no source URL for manual item, got %q", news.SourceURL)
	}
	if news.Title != "AI Title" || news.Summary != "AI summary." || news.WhyItMatters != "AI significance." {
		t.Errorf("Expected summarizer output, got title=%q summary=%q why=%q", news.Title, news.Summary, news.WhyItMatters)
	}
	if news.Content != manualContent {
		t.Errorf("Expected raw content preserved, got %q", news.Content)
	}
	if news.CreatedBy != "user-1" {
		t.Errorf("Expected actor attribution, got %q", news.CreatedBy)
	}
	if mockExtractor.calls != 0 {
		t.Errorf("Expected manual submission to bypass the extractor, got %d calls", mockExtractor.calls)
	}
}

func TestService_CreateNews_InputValidation(t *testing.T) {
	service := newTestService(NewMockNewsRepository(), &MockExtractor{}, &MockSummarizer{})

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"neither field", CreateInput{}},
		{"whitespace content", CreateInput{Content: "   "}},
		{"both fields", CreateInput{Content: manualContent, SourceURL: "https://example.com/a"}},
		{"relative image URL", CreateInput{Content: manualContent, ImageURL: "/img.png"}},
	}

	for _, tt := range tests {
		_, err := service.CreateNews(context.Background(), tt.input, "")
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tt.name, err)
		}
	}
}

func TestService_CreateNews_FromURL(t *testing.T) {
	repo := NewMockNewsRepository()
	mockExtractor := &MockExtractor{article: &extractor.Article{
		Title:    "Extracted Title",
		Text:     "extracted article text",
		ImageURL: "https://example.com/lead.jpg",
	}}
	service := newTestService(repo, mockExtractor, &MockSummarizer{})

	news, err := service.CreateNews(context.Background(), CreateInput{SourceURL: "https://example.com/article"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if news.SourceKind != database.SourceURL {
		t.Errorf("Expected source kind %q, got %q", database.SourceURL, news.SourceKind)
	}
	if news.Content != "extracted article text" {
		t.Errorf("Expected extracted text as content, got %q", news.Content)
	}
	if news.ImageURL != "https://example.com/lead.jpg" {
		t.Errorf("Expected extracted lead image, got %q", news.ImageURL)
	}
	// The extracted page title is never persisted; the summarizer owns it
	if news.Title != "AI Title" {
		t.Errorf("Expected summarizer title, got %q", news.Title)
	}
}

func TestService_CreateNews_ExtractorFailureSurfaced(t *testing.T) {
	mockExtractor := &MockExtractor{err: extractor.ErrExtraction}
	service := newTestService(NewMockNewsRepository(), mockExtractor, &MockSummarizer{})

	_, err := service.CreateNews(context.Background(), CreateInput{SourceURL: "https://example.com/a"}, "")
	if !errors.Is(err, extractor.ErrExtraction) {
		t.Errorf("Expected extractor failure kind surfaced directly, got %v", err)
	}
}

func TestService_CreateNews_DuplicateURL(t *testing.T) {
	repo := NewMockNewsRepository()
	repo.existing["https://example.com/a"] = &database.News{ID: 1, SourceURL: "https://example.com/a"}
	service := newTestService(repo, &MockExtractor{}, &MockSummarizer{})

	_, err := service.CreateNews(context.Background(), CreateInput{SourceURL: "https://example.com/a"}, "")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate URL, got %v", err)
	}
}

func TestService_CreateNews_InsertRaceReportsConflict(t *testing.T) {
	// Existence check passes but a concurrent submission wins the insert;
	// the unique-constraint backstop surfaces as the same conflict
	repo := NewMockNewsRepository()
	repo.insertErr = database.ErrDuplicate
	mockExtractor := &MockExtractor{article: &extractor.Article{Title: "T", Text: "some text"}}
	service := newTestService(repo, mockExtractor, &MockSummarizer{})

	_, err := service.CreateNews(context.Background(), CreateInput{SourceURL: "https://example.com/a"}, "")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict from losing insert, got %v", err)
	}
}

func TestService_CreateNews_SummarizerFailureNothingPersisted(t *testing.T) {
	repo := NewMockNewsRepository()
	service := newTestService(repo, &MockExtractor{}, &MockSummarizer{err: summarizer.ErrSchema})

	_, err := service.CreateNews(context.Background(), CreateInput{Content: manualContent}, "")
	if !errors.Is(err, summarizer.ErrSchema) {
		t.Errorf("Expected summarizer failure surfaced, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Errorf("Expected no record persisted on summarizer failure, got %d", len(repo.inserted))
	}
}

func TestService_ListNews_Clamping(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		expectedPage   int
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults respected", 1, 10, 1, 10, 0},
		{"limit clamped high", 1, 999, 1, 50, 0},
		{"limit clamped low", 1, 0, 1, 1, 0},
		{"negative limit", 1, -5, 1, 1, 0},
		{"page clamped", 0, 10, 1, 10, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"offset from page", 3, 20, 3, 20, 40},
	}

	for _, tt := range tests {
		repo := NewMockNewsRepository()
		repo.total = 100
		service := newTestService(repo, &MockExtractor{}, &MockSummarizer{})

		result, err := service.ListNews(tt.page, tt.limit, "")
		if err != nil {
			t.Fatalf("%s: expected no error, got: %v", tt.name, err)
		}

		if result.CurrentPage != tt.expectedPage {
			t.Errorf("%s: expected current page %d, got %d", tt.name, tt.expectedPage, result.CurrentPage)
		}
		if repo.gotLimit != tt.expectedLimit {
			t.Errorf("%s: expected limit %d, got %d", tt.name, tt.expectedLimit, repo.gotLimit)
		}
		if repo.gotOffset != tt.expectedOffset {
			t.Errorf("%s: expected offset %d, got %d", tt.name, tt.expectedOffset, repo.gotOffset)
		}
	}
}

func TestService_ListNews_TotalPages(t *testing.T) {
	repo := NewMockNewsRepository()
	repo.total = 101
	service := newTestService(repo, &MockExtractor{}, &MockSummarizer{})

	result, err := service.ListNews(1, 10, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.TotalPages != 11 {
		t.Errorf("Expected 11 total pages for 101 items at limit 10, got %d", result.TotalPages)
	}
}

func TestService_ListNews_UnknownKindIgnored(t *testing.T) {
	repo := NewMockNewsRepository()
	service := newTestService(repo, &MockExtractor{}, &MockSummarizer{})

	if _, err := service.ListNews(1, 10, "telegram"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if repo.gotKind != "" {
		t.Errorf("Expected unknown source kind ignored, got %q", repo.gotKind)
	}

	if _, err := service.ListNews(1, 10, database.SourceRSS); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if repo.gotKind != database.SourceRSS {
		t.Errorf("Expected known source kind passed through, got %q", repo.gotKind)
	}
}
