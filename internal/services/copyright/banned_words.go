package copyright

import (
	"context"
	"strings"

	"marketplace/internal/models"
)

type BannedWordList struct {
	Version int64               `json:"version"`
	Words   []models.BannedWord `json:"words"`
}

func (s *Service) ListBannedWords(ctx context.Context, admin models.Actor) (*BannedWordList, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	version, err := s.store.BannedWords().Version(ctx)
	if err != nil {
		return nil, err
	}
	words, err := s.store.BannedWords().List(ctx)
	if err != nil {
		return nil, err
	}
	return &BannedWordList{Version: version, Words: words}, nil
}

// UpsertBannedWord adds or reclassifies a term and returns the new list version.
func (s *Service) UpsertBannedWord(ctx context.Context, admin models.Actor, word models.BannedWord) (int64, error) {
	if err := requireAdmin(admin); err != nil {
		return 0, err
	}
	word.Term = strings.ToLower(strings.TrimSpace(word.Term))
	word.Category = strings.ToUpper(strings.TrimSpace(word.Category))
	word.Severity = strings.ToUpper(strings.TrimSpace(word.Severity))
	if len(tokenize(word.Term)) == 0 || !models.ValidCategory(word.Category) || !models.ValidSeverity(word.Severity) {
		return 0, ErrInvalidWord
	}
	return s.store.BannedWords().Upsert(ctx, &word)
}

func (s *Service) DeleteBannedWord(ctx context.Context, admin models.Actor, term string) (int64, error) {
	if err := requireAdmin(admin); err != nil {
		return 0, err
	}
	return s.store.BannedWords().Delete(ctx, term)
}
