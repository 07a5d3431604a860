package brackets

import (
	"context"

	"github.com/Dosada05/bracket-engine/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds bracketSize-1 matches over log2(bracketSize) rounds. Byes are
// resolved immediately and their winners already sit in round two.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	b, err := newBuilder(ctx, params, models.FormatSingleElimination, g.GetName())
	if err != nil {
		return nil, err
	}

	info, err := NormalizeByes(params.ParticipantCount)
	if err != nil {
		return nil, err
	}

	if _, err := b.buildEliminationRounds(info, models.SegmentWinners); err != nil {
		return nil, err
	}
	b.advanceByes()

	return b.result()
}
