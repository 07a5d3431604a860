package brackets

import (
	"context"

	"github.com/Dosada05/bracket-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket pairs every participant with every other exactly once using the circle
// method: seed 1 stays fixed while the others rotate one position per round. An odd field
// gets a dummy entry, and whoever faces it sits the round out, so no match is created for
// the bye. Matches carry no forward links.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	b, err := newBuilder(ctx, params, models.FormatRoundRobin, g.GetName())
	if err != nil {
		return nil, err
	}

	const dummy = 0
	seeds := make([]int, 0, params.ParticipantCount+1)
	for seed := 1; seed <= params.ParticipantCount; seed++ {
		seeds = append(seeds, seed)
	}
	if len(seeds)%2 != 0 {
		seeds = append(seeds, dummy)
	}

	n := len(seeds)
	numRounds := n - 1
	half := n / 2

	for round := 1; round <= numRounds; round++ {
		position := 0
		for i := 0; i < half; i++ {
			home, away := seeds[i], seeds[n-1-i]
			if home == dummy || away == dummy {
				continue
			}
			position++
			b.add(models.Match{
				Round:        round,
				Bracket:      models.SegmentRoundRobin,
				Position:     position,
				Participant1: b.participant(home),
				Participant2: b.participant(away),
			})
		}
		rotated := make([]int, 0, n)
		rotated = append(rotated, seeds[0], seeds[n-1])
		rotated = append(rotated, seeds[1:n-1]...)
		seeds = rotated
	}

	return b.result()
}
