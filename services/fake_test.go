package services

import (
	"context"
	"sync"
	"time"

	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"github.com/Dosada05/bracket-engine/storage"
)

// fakeRepository keeps brackets in memory. Writes inside RunInTx are staged on a copy and
// only kept when fn succeeds, mirroring a rolled back transaction.
type fakeRepository struct {
	mu       sync.Mutex
	brackets map[string]*models.Bracket
	staged   map[string]*models.Bracket

	updatedMatches      [][]models.Match
	upsertedParticipant [][]models.Participant
	createErr           error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{brackets: make(map[string]*models.Bracket)}
}

func cloneBracket(b *models.Bracket) *models.Bracket {
	c := *b
	c.Matches = models.CloneMatches(b.Matches)
	return &c
}

func (r *fakeRepository) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.staged = make(map[string]*models.Bracket, len(r.brackets))
	for id, b := range r.brackets {
		r.staged[id] = cloneBracket(b)
	}
	defer func() { r.staged = nil }()

	if err := fn(nil); err != nil {
		return err
	}
	r.brackets = r.staged
	return nil
}

func (r *fakeRepository) Create(ctx context.Context, exec repositories.SQLExecutor, bracket *models.Bracket) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.staged[bracket.ID]; exists {
		return repositories.ErrBracketConflict
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	bracket.CreatedAt, bracket.UpdatedAt = now, now
	r.staged[bracket.ID] = cloneBracket(bracket)
	return nil
}

func (r *fakeRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id string, forUpdate bool) (*models.Bracket, error) {
	b, ok := r.staged[id]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	return cloneBracket(b), nil
}

func (r *fakeRepository) Load(ctx context.Context, id string) (*models.Bracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.brackets[id]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	return cloneBracket(b), nil
}

func (r *fakeRepository) UpdateMatches(ctx context.Context, exec repositories.SQLExecutor, bracketID string, matches []models.Match) error {
	b, ok := r.staged[bracketID]
	if !ok {
		return repositories.ErrBracketNotFound
	}
	r.updatedMatches = append(r.updatedMatches, models.CloneMatches(matches))
	for _, changed := range matches {
		for i := range b.Matches {
			if b.Matches[i].ID == changed.ID {
				b.Matches[i] = changed.Clone()
			}
		}
	}
	return nil
}

func (r *fakeRepository) UpsertParticipants(ctx context.Context, exec repositories.SQLExecutor, bracketID string, participants []models.Participant) error {
	if len(participants) > 0 {
		r.upsertedParticipant = append(r.upsertedParticipant, participants)
	}
	b, ok := r.staged[bracketID]
	if !ok {
		return repositories.ErrBracketNotFound
	}
	byID := make(map[models.ParticipantID]models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	for i := range b.Matches {
		for _, slot := range []models.Slot{models.Slot1, models.Slot2} {
			if current := b.Matches[i].ParticipantAt(slot); current != nil {
				if p, ok := byID[current.ID]; ok {
					c := p.Clone()
					b.Matches[i].SetParticipantAt(slot, &c)
				}
			}
		}
	}
	return nil
}

func (r *fakeRepository) Touch(ctx context.Context, exec repositories.SQLExecutor, bracketID string) (time.Time, error) {
	b, ok := r.staged[bracketID]
	if !ok {
		return time.Time{}, repositories.ErrBracketNotFound
	}
	b.UpdatedAt = b.UpdatedAt.Add(time.Minute)
	return b.UpdatedAt, nil
}

func (r *fakeRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, id string) error {
	if _, ok := r.staged[id]; !ok {
		return repositories.ErrBracketNotFound
	}
	delete(r.staged, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BracketUpdated
	err    error
}

func (p *recordingPublisher) PublishBracketUpdated(ctx context.Context, evt events.BracketUpdated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Reason
	}
	return out
}

type recordingArchive struct {
	mu       sync.Mutex
	archived []string
	removed  []string
}

func (a *recordingArchive) Archive(ctx context.Context, bracket *models.Bracket) (*storage.UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.archived = append(a.archived, bracket.ID)
	return &storage.UploadResult{Key: storage.SnapshotKey("brackets", bracket.ID)}, nil
}

func (a *recordingArchive) Remove(ctx context.Context, bracketID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removed = append(a.removed, bracketID)
	return nil
}
