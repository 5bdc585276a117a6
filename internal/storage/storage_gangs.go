package storage

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keshon/dea-bot/internal/domain"
)

// FetchGang returns the gang with gangID, or ErrNotFound.
func (s *Storage) FetchGang(_ context.Context, guildID, gangID string) (domain.GangState, error) {
	record, err := s.view(guildID)
	if err != nil {
		return domain.GangState{}, err
	}
	gang, ok := record.Gangs[gangID]
	if !ok {
		return domain.GangState{}, ErrNotFound
	}
	return gang, nil
}

// FindGang looks a gang up by name, ignoring case.
func (s *Storage) FindGang(_ context.Context, guildID, name string) (domain.GangState, error) {
	record, err := s.view(guildID)
	if err != nil {
		return domain.GangState{}, err
	}
	gang, ok := record.gangByName(name)
	if !ok {
		return domain.GangState{}, ErrNotFound
	}
	return gang, nil
}

// CreateGang founds a gang led by leaderID.
func (s *Storage) CreateGang(_ context.Context, guildID, leaderID, name string) (domain.GangState, error) {
	var gang domain.GangState
	err := s.Update(guildID, func(r *Record) error {
		leader := r.user(leaderID)
		if leader.InGang() {
			return ErrInGang
		}
		if _, taken := r.gangByName(name); taken {
			return ErrNameTaken
		}
		gang = domain.GangState{
			ID:       uuid.New().String(),
			Name:     name,
			LeaderID: leaderID,
			Members:  []string{leaderID},
		}
		r.Gangs[gang.ID] = gang
		leader.GangID = gang.ID
		r.Users[leaderID] = leader
		return nil
	})
	return gang, err
}

// JoinGang adds userID to the named gang. limit caps the member count; zero
// means unlimited.
func (s *Storage) JoinGang(_ context.Context, guildID, userID, name string, limit int) (domain.GangState, error) {
	var gang domain.GangState
	err := s.Update(guildID, func(r *Record) error {
		u := r.user(userID)
		if u.InGang() {
			return ErrInGang
		}
		g, ok := r.gangByName(name)
		if !ok {
			return ErrNotFound
		}
		if limit > 0 && len(g.Members) >= limit {
			return ErrGangFull
		}
		g.Members = append(g.Members, userID)
		r.Gangs[g.ID] = g
		u.GangID = g.ID
		r.Users[userID] = u
		gang = g
		return nil
	})
	return gang, err
}

// LeaveGang removes userID from their gang. When the leader leaves the gang
// is disbanded and its wealth is lost. It reports whether that happened.
func (s *Storage) LeaveGang(_ context.Context, guildID, userID string) (bool, error) {
	disbanded := false
	err := s.Update(guildID, func(r *Record) error {
		u := r.user(userID)
		if !u.InGang() {
			return ErrNotInGang
		}
		g, ok := r.Gangs[u.GangID]
		if !ok {
			u.GangID = ""
			r.Users[userID] = u
			return nil
		}
		if g.LeaderID == userID {
			for _, member := range g.Members {
				m := r.user(member)
				m.GangID = ""
				r.Users[member] = m
			}
			delete(r.Gangs, g.ID)
			disbanded = true
			return nil
		}
		g.Members = slices.DeleteFunc(g.Members, func(id string) bool { return id == userID })
		r.Gangs[g.ID] = g
		u.GangID = ""
		r.Users[userID] = u
		return nil
	})
	return disbanded, err
}

// Deposit moves amount from the user's cash into their gang's wealth.
func (s *Storage) Deposit(_ context.Context, guildID, userID string, amount int64) (domain.GangState, error) {
	var gang domain.GangState
	err := s.Update(guildID, func(r *Record) error {
		u := r.user(userID)
		g, err := r.gangOf(u)
		if err != nil {
			return err
		}
		if u.Cash < amount {
			return ErrInsufficientFunds
		}
		u.Cash -= amount
		g.Wealth += amount
		r.Users[userID] = u
		r.Gangs[g.ID] = g
		gang = g
		return nil
	})
	return gang, err
}

// Withdraw moves amount from the gang's wealth to the user and stamps the
// withdraw cooldown at now. It fails with ErrInsufficientFunds when the
// gang holds less than amount.
func (s *Storage) Withdraw(_ context.Context, guildID, userID string, amount int64, now time.Time) (domain.GangState, error) {
	var gang domain.GangState
	err := s.Update(guildID, func(r *Record) error {
		u := r.user(userID)
		g, err := r.gangOf(u)
		if err != nil {
			return err
		}
		if g.Wealth < amount {
			return ErrInsufficientFunds
		}
		g.Wealth -= amount
		u.Cash += amount
		u.Cooldowns["withdraw"] = now
		r.Users[userID] = u
		r.Gangs[g.ID] = g
		gang = g
		return nil
	})
	return gang, err
}

// ClaimRaid stamps the gang's raid at now unless it raided less than d ago.
func (s *Storage) ClaimRaid(_ context.Context, guildID, gangID string, now time.Time, d time.Duration) (bool, error) {
	claimed := false
	err := s.Update(guildID, func(r *Record) error {
		g, ok := r.Gangs[gangID]
		if !ok {
			return ErrNotFound
		}
		if !g.LastRaid.IsZero() && now.Sub(g.LastRaid) < d {
			return nil
		}
		g.LastRaid = now
		r.Gangs[gangID] = g
		claimed = true
		return nil
	})
	return claimed, err
}

// AddGangWealth adds delta to the gang's wealth and returns the new total.
// Wealth never drops below zero.
func (s *Storage) AddGangWealth(_ context.Context, guildID, gangID string, delta int64) (int64, error) {
	var wealth int64
	err := s.Update(guildID, func(r *Record) error {
		g, ok := r.Gangs[gangID]
		if !ok {
			return ErrNotFound
		}
		g.Wealth = max(g.Wealth+delta, 0)
		r.Gangs[gangID] = g
		wealth = g.Wealth
		return nil
	})
	return wealth, err
}

func (r *Record) gangByName(name string) (domain.GangState, bool) {
	for _, g := range r.Gangs {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return domain.GangState{}, false
}

func (r *Record) gangOf(u domain.ActorState) (domain.GangState, error) {
	if !u.InGang() {
		return domain.GangState{}, ErrNotInGang
	}
	g, ok := r.Gangs[u.GangID]
	if !ok {
		return domain.GangState{}, ErrNotFound
	}
	return g, nil
}
