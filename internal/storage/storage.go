// /internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/keshon/datastore"

	"github.com/keshon/dea-bot/internal/domain"
)

const (
	defaultHistoryLimit = 20
	defaultSaveInterval = time.Minute
	guildIndexKey       = "__guilds"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInGang            = errors.New("already in a gang")
	ErrNotInGang         = errors.New("not in a gang")
	ErrNameTaken         = errors.New("gang name already taken")
	ErrGangFull          = errors.New("gang is full")
)

// Storage keeps one Record per guild in a JSON datastore. Every read returns
// a private copy; writes go through Update so a read-modify-write is atomic
// with respect to other writers.
type Storage struct {
	ds            *datastore.DataStore
	cancel        context.CancelFunc
	mu            sync.Mutex
	defaultPrefix string
	historyLimit  int
	saveInterval  time.Duration
}

type Record struct {
	Guild           domain.GuildConfig           `json:"guild"`
	Users           map[string]domain.ActorState `json:"users"`
	Gangs           map[string]domain.GangState  `json:"gangs"`
	CommandsHistory []domain.CommandHistory      `json:"commands_history"`
}

type Option func(*Storage)

// WithDefaultPrefix sets the prefix reported for guilds that never set one.
func WithDefaultPrefix(prefix string) Option {
	return func(s *Storage) { s.defaultPrefix = prefix }
}

// WithHistoryLimit caps the per-guild command history.
func WithHistoryLimit(n int) Option {
	return func(s *Storage) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithSaveInterval sets how often the datastore is flushed to disk.
func WithSaveInterval(d time.Duration) Option {
	return func(s *Storage) {
		if d > 0 {
			s.saveInterval = d
		}
	}
}

// New opens the datastore at filePath. The background flush stops when ctx
// is done or the storage is closed.
func New(ctx context.Context, filePath string, opts ...Option) (*Storage, error) {
	s := &Storage{defaultPrefix: "$", historyLimit: defaultHistoryLimit, saveInterval: defaultSaveInterval}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithCancel(ctx)
	ds, err := datastore.New(ctx, filePath, datastore.WithSaveInterval(s.saveInterval))
	if err != nil {
		cancel()
		return nil, err
	}
	s.ds = ds
	s.cancel = cancel
	return s, nil
}

// Close flushes the datastore to disk.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

// Update applies fn to the guild's record and stores the result. Nothing is
// stored when fn fails.
func (s *Storage) Update(guildID string, fn func(*Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists, err := s.load(guildID)
	if err != nil {
		return err
	}
	if err := fn(record); err != nil {
		return err
	}
	if err := s.ds.Set(guildID, record); err != nil {
		return fmt.Errorf("store guild %s: %w", guildID, err)
	}
	if !exists {
		return s.indexGuild(guildID)
	}
	return nil
}

// view returns a copy of the guild's record. Unseen guilds read as an empty
// record that is not stored until the first Update.
func (s *Storage) view(guildID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, _, err := s.load(guildID)
	return record, err
}

// load decodes a fresh copy of the guild's record and reports whether it was
// stored. Callers must hold s.mu.
func (s *Storage) load(guildID string) (*Record, bool, error) {
	var record Record
	exists, err := s.ds.Get(guildID, &record)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		record = Record{Guild: domain.GuildConfig{GuildID: guildID}}
	}
	record.normalize(s.historyLimit)
	return &record, exists, nil
}

func (s *Storage) indexGuild(guildID string) error {
	ids, err := s.guildIDs()
	if err != nil {
		return err
	}
	if slices.Contains(ids, guildID) {
		return nil
	}
	if err := s.ds.Set(guildIndexKey, append(ids, guildID)); err != nil {
		return fmt.Errorf("index guild %s: %w", guildID, err)
	}
	return nil
}

// guildIDs lists every guild with a stored record. Callers must hold s.mu.
func (s *Storage) guildIDs() ([]string, error) {
	var ids []string
	if _, err := s.ds.Get(guildIndexKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Record) normalize(historyLimit int) {
	if r.Guild.ModRoles == nil {
		r.Guild.ModRoles = map[string]int{}
	}
	if r.Guild.RankRoles == nil {
		r.Guild.RankRoles = map[int]string{}
	}
	if r.Users == nil {
		r.Users = map[string]domain.ActorState{}
	}
	if r.Gangs == nil {
		r.Gangs = map[string]domain.GangState{}
	}
	if r.CommandsHistory == nil {
		r.CommandsHistory = []domain.CommandHistory{}
	}
	if len(r.CommandsHistory) > historyLimit {
		r.CommandsHistory = r.CommandsHistory[len(r.CommandsHistory)-historyLimit:]
	}
}

// user returns the user's state, creating an empty one on first use.
func (r *Record) user(userID string) domain.ActorState {
	u, ok := r.Users[userID]
	if !ok {
		u = domain.ActorState{UserID: userID}
	}
	if u.Cooldowns == nil {
		u.Cooldowns = map[string]time.Time{}
	}
	return u
}
