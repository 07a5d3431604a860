package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

type GenerateBracketParams struct {
	ParticipantCount int
	Options          []BuildOption
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error)

	GetName() string
}

// NewGenerator returns the generator for a format.
func NewGenerator(format models.Format) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported bracket format %q", ErrInvalidInput, format)
	}
}

// Build constructs the full match collection for participantCount participants.
func Build(participantCount int, format models.Format, opts ...BuildOption) ([]models.Match, error) {
	gen, err := NewGenerator(format)
	if err != nil {
		return nil, err
	}
	return gen.GenerateBracket(context.Background(), GenerateBracketParams{
		ParticipantCount: participantCount,
		Options:          opts,
	})
}

type buildConfig struct {
	matchID       func(seq int) models.MatchID
	participantID func(seed int) models.ParticipantID
	names         []string
}

type BuildOption func(*buildConfig)

// WithMatchIDs sets the key assigned to the match with the given sequence number.
func WithMatchIDs(fn func(seq int) models.MatchID) BuildOption {
	return func(c *buildConfig) { c.matchID = fn }
}

// WithParticipantIDs sets the key assigned to the participant holding the given seed.
func WithParticipantIDs(fn func(seed int) models.ParticipantID) BuildOption {
	return func(c *buildConfig) { c.participantID = fn }
}

// WithParticipantNames binds names to seeds 1..len(names). Empty names leave the seed a
// placeholder.
func WithParticipantNames(names []string) BuildOption {
	return func(c *buildConfig) { c.names = names }
}

func newBuildConfig(opts []BuildOption) buildConfig {
	cfg := buildConfig{
		matchID:       func(seq int) models.MatchID { return models.MatchID(fmt.Sprintf("m%d", seq)) },
		participantID: func(seed int) models.ParticipantID { return models.ParticipantID(fmt.Sprintf("p%d", seed)) },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// builder accumulates matches in sequence order. Matches reference each other by id only;
// the index map is the arena lookup.
type builder struct {
	cfg     buildConfig
	count   int
	matches []models.Match
	index   map[models.MatchID]int
	ids     map[int]models.ParticipantID
}

func newBuilder(ctx context.Context, params GenerateBracketParams, format models.Format, name string) (*builder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.ParticipantCount < format.MinParticipants() {
		return nil, fmt.Errorf("%w: %s needs at least %d participants, got %d", ErrInvalidInput, name, format.MinParticipants(), params.ParticipantCount)
	}
	if params.ParticipantCount > format.MaxParticipants() {
		return nil, fmt.Errorf("%w: %s supports at most %d participants, got %d", ErrInvalidInput, name, format.MaxParticipants(), params.ParticipantCount)
	}
	cfg := newBuildConfig(params.Options)
	if len(cfg.names) > params.ParticipantCount {
		return nil, fmt.Errorf("%w: %d names given for %d participants", ErrInvalidInput, len(cfg.names), params.ParticipantCount)
	}
	return &builder{
		cfg:   cfg,
		count: params.ParticipantCount,
		index: make(map[models.MatchID]int),
		ids:   make(map[int]models.ParticipantID),
	}, nil
}

func (b *builder) add(m models.Match) int {
	seq := len(b.matches) + 1
	m.ID = b.cfg.matchID(seq)
	m.MatchNumber = seq
	if m.Status == "" {
		m.Status = models.MatchStatusPending
	}
	b.matches = append(b.matches, m)
	b.index[m.ID] = seq - 1
	return seq - 1
}

// participant returns a fresh record for the seed, or nil when the seed is a bye slot. The
// id generator runs once per seed.
func (b *builder) participant(seed int) *models.Participant {
	if seed < 1 || seed > b.count {
		return nil
	}
	id, ok := b.ids[seed]
	if !ok {
		id = b.cfg.participantID(seed)
		b.ids[seed] = id
	}
	s := seed
	p := &models.Participant{
		ID:            id,
		Name:          fmt.Sprintf("Participant %d", seed),
		Seed:          &s,
		IsPlaceholder: true,
	}
	if seed <= len(b.cfg.names) && b.cfg.names[seed-1] != "" {
		p.Name = b.cfg.names[seed-1]
		p.IsPlaceholder = false
	}
	return p
}

func (b *builder) linkWinner(from, to int, slot models.Slot) {
	b.matches[from].SetWinnerLink(models.Link{MatchID: b.matches[to].ID, Slot: slot})
}

func (b *builder) linkLoser(from, to int, slot models.Slot) {
	b.matches[from].SetLoserLink(models.Link{MatchID: b.matches[to].ID, Slot: slot})
}

// advanceByes writes every round-one bye winner into its destination slot.
func (b *builder) advanceByes() {
	for i := range b.matches {
		m := &b.matches[i]
		if m.Status != models.MatchStatusBye || m.WinnerID == nil {
			continue
		}
		link, ok := m.WinnerLink()
		if !ok {
			continue
		}
		winner := m.Participant1
		if winner == nil || winner.ID != *m.WinnerID {
			winner = m.Participant2
		}
		p := winner.Clone()
		b.matches[b.index[link.MatchID]].SetParticipantAt(link.Slot, &p)
	}
}

func (b *builder) result() ([]models.Match, error) {
	if len(b.index) != len(b.matches) {
		return nil, fmt.Errorf("%w: match id generator returned duplicate ids", ErrInvalidInput)
	}
	return b.matches, nil
}

// buildEliminationRounds lays out a full elimination tree in the given segment and returns
// the match indices of each round. Round one pairs adjacent entries of the seed order; a
// pairing against an empty seed is created as a resolved bye.
func (b *builder) buildEliminationRounds(info ByeInfo, segment models.BracketSegment) ([][]int, error) {
	order, err := SeedOrder(info.BracketSize)
	if err != nil {
		return nil, err
	}

	rounds := make([][]int, 0, info.Rounds())
	first := make([]int, 0, info.BracketSize/2)
	for i := 0; i < len(order); i += 2 {
		m := models.Match{
			Round:        1,
			Bracket:      segment,
			Position:     i/2 + 1,
			Participant1: b.participant(order[i]),
			Participant2: b.participant(order[i+1]),
		}
		switch {
		case m.Participant1 != nil && m.Participant2 == nil:
			m.Status = models.MatchStatusBye
			m.WinnerID = participantIDPtr(m.Participant1.ID)
		case m.Participant1 == nil && m.Participant2 != nil:
			m.Status = models.MatchStatusBye
			m.WinnerID = participantIDPtr(m.Participant2.ID)
		case m.Participant1 == nil && m.Participant2 == nil:
			return nil, fmt.Errorf("%w: seeds %d and %d are both byes", ErrInvalidState, order[i], order[i+1])
		}
		first = append(first, b.add(m))
	}
	rounds = append(rounds, first)

	for r := 2; len(rounds[len(rounds)-1]) > 1; r++ {
		prev := rounds[len(rounds)-1]
		current := make([]int, 0, len(prev)/2)
		for j := 0; j < len(prev); j += 2 {
			idx := b.add(models.Match{Round: r, Bracket: segment, Position: j/2 + 1})
			b.linkWinner(prev[j], idx, models.Slot1)
			b.linkWinner(prev[j+1], idx, models.Slot2)
			current = append(current, idx)
		}
		rounds = append(rounds, current)
	}
	return rounds, nil
}

func participantIDPtr(id models.ParticipantID) *models.ParticipantID {
	return &id
}
