package copyright

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"sync"

	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"gopkg.in/yaml.v3"
)

//go:embed default_banned_words.yaml
var defaultWordsYAML []byte

// DefaultWords parses the embedded seed list.
func DefaultWords() ([]models.BannedWord, error) {
	var doc struct {
		Words []models.BannedWord `yaml:"words"`
	}
	if err := yaml.Unmarshal(defaultWordsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse default banned words: %w", err)
	}
	for _, w := range doc.Words {
		if !models.ValidSeverity(w.Severity) || !models.ValidCategory(w.Category) {
			return nil, fmt.Errorf("default banned word %q has invalid category or severity", w.Term)
		}
	}
	return doc.Words, nil
}

// ScannerSource supplies the scanner for the current banned-word list.
type ScannerSource interface {
	Scanner(ctx context.Context) (*Scanner, error)
}

// StaticSource always returns the same scanner.
type StaticSource struct {
	scanner *Scanner
}

func NewStaticSource(words []models.BannedWord) *StaticSource {
	return &StaticSource{scanner: NewScanner(0, words)}
}

func (s *StaticSource) Scanner(context.Context) (*Scanner, error) {
	return s.scanner, nil
}

// WordCache is the subset of the Redis cache used for the word list.
type WordCache interface {
	CacheBannedWords(ctx context.Context, version int64, words []models.BannedWord) error
	GetBannedWords(ctx context.Context, version int64) ([]models.BannedWord, error)
}

// VersionedSource reads the banned-word table and rebuilds its scanner only
// when the list version changes. Word lists are shared through Redis keyed by
// version, so every instance converges on the same list after an admin edit.
type VersionedSource struct {
	words repositories.BannedWordRepository
	cache WordCache

	mu      sync.RWMutex
	current *Scanner
}

// NewVersionedSource creates the source. cache may be nil.
func NewVersionedSource(words repositories.BannedWordRepository, cache WordCache) *VersionedSource {
	return &VersionedSource{words: words, cache: cache}
}

func (s *VersionedSource) Scanner(ctx context.Context) (*Scanner, error) {
	version, err := s.words.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("read banned word version: %w", err)
	}

	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current != nil && current.Version() == version {
		return current, nil
	}

	words, err := s.load(ctx, version)
	if err != nil {
		return nil, err
	}
	scanner := NewScanner(version, words)

	s.mu.Lock()
	if s.current == nil || s.current.Version() <= version {
		s.current = scanner
	}
	s.mu.Unlock()
	return scanner, nil
}

func (s *VersionedSource) load(ctx context.Context, version int64) ([]models.BannedWord, error) {
	if s.cache != nil {
		words, err := s.cache.GetBannedWords(ctx, version)
		if err != nil {
			log.Printf("⚠️ Banned word cache read failed: %v", err)
		} else if words != nil {
			return words, nil
		}
	}

	words, err := s.words.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load banned words: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.CacheBannedWords(ctx, version, words); err != nil {
			log.Printf("⚠️ Failed to cache banned words: %v", err)
		}
	}
	return words, nil
}

// SeedDefaults loads the embedded list into an empty table.
func SeedDefaults(ctx context.Context, words repositories.BannedWordRepository) (int, error) {
	defaults, err := DefaultWords()
	if err != nil {
		return 0, err
	}
	return words.Seed(ctx, defaults)
}
