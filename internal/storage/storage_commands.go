package storage

import (
	"context"

	"github.com/keshon/dea-bot/internal/domain"
)

// AppendCommandHistory logs one command execution, dropping the oldest
// entries beyond the history limit.
func (s *Storage) AppendCommandHistory(_ context.Context, guildID string, entry domain.CommandHistory) error {
	return s.Update(guildID, func(r *Record) error {
		r.CommandsHistory = append(r.CommandsHistory, entry)
		r.normalize(s.historyLimit)
		return nil
	})
}

func (s *Storage) FetchCommandHistory(_ context.Context, guildID string) ([]domain.CommandHistory, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistory, nil
}
