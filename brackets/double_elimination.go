package brackets

import (
	"context"

	"github.com/Dosada05/bracket-engine/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// feeder is a losers-bracket survivor slot: the match whose winner moves on, and whether
// that match can ever produce one.
type feeder struct {
	match int
	live  bool
}

// GenerateBracket builds the winners bracket (bracketSize-1 matches), the losers bracket
// (bracketSize-2 matches) and one grand final.
//
// Losers round one takes the winners-round-one losers pairwise. Every later winners round
// drops its losers into the surviving losers matches (slot 2, in reverse order so early
// opponents do not meet again immediately), and a consolidation round halves the survivors
// until one remains. A losers match that can only ever receive one participant, because a
// feeder was a first-round bye, is created in bye status and passes that participant on.
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	b, err := newBuilder(ctx, params, models.FormatDoubleElimination, g.GetName())
	if err != nil {
		return nil, err
	}

	info, err := NormalizeByes(params.ParticipantCount)
	if err != nil {
		return nil, err
	}

	winners, err := b.buildEliminationRounds(info, models.SegmentWinners)
	if err != nil {
		return nil, err
	}
	winnersFinal := winners[len(winners)-1][0]

	var losersFinal *feeder
	if len(winners) >= 2 {
		f := b.buildLosersBracket(winners)
		losersFinal = &f
	}

	grandFinal := b.add(models.Match{
		Round:    len(winners) + 1,
		Bracket:  models.SegmentGrandFinal,
		Position: 1,
	})
	b.linkWinner(winnersFinal, grandFinal, models.Slot1)
	if losersFinal != nil {
		b.linkWinner(losersFinal.match, grandFinal, models.Slot2)
	} else {
		// Two-slot bracket: the finalist beaten in the winners final goes straight to the
		// grand final.
		b.linkLoser(winnersFinal, grandFinal, models.Slot2)
	}

	b.advanceByes()
	return b.result()
}

func (b *builder) buildLosersBracket(winners [][]int) feeder {
	round := 1
	firstRound := winners[0]
	survivors := make([]feeder, 0, len(firstRound)/2)
	for i := 0; i < len(firstRound); i += 2 {
		idx := b.add(models.Match{Round: round, Bracket: models.SegmentLosers, Position: i/2 + 1})
		live := 0
		for s, src := range []int{firstRound[i], firstRound[i+1]} {
			if b.matches[src].Status == models.MatchStatusBye {
				continue
			}
			b.linkLoser(src, idx, models.Slot(s+1))
			live++
		}
		if live < 2 {
			b.matches[idx].Status = models.MatchStatusBye
		}
		survivors = append(survivors, feeder{match: idx, live: live > 0})
	}

	for r := 1; r < len(winners); r++ {
		dropping := winners[r]

		round++
		dropped := make([]feeder, 0, len(survivors))
		for i, survivor := range survivors {
			idx := b.add(models.Match{Round: round, Bracket: models.SegmentLosers, Position: i + 1})
			b.linkWinner(survivor.match, idx, models.Slot1)
			b.linkLoser(dropping[len(dropping)-1-i], idx, models.Slot2)
			if !survivor.live {
				b.matches[idx].Status = models.MatchStatusBye
			}
			dropped = append(dropped, feeder{match: idx, live: true})
		}
		survivors = dropped

		if len(survivors) == 1 {
			continue
		}

		round++
		halved := make([]feeder, 0, len(survivors)/2)
		for j := 0; j < len(survivors); j += 2 {
			idx := b.add(models.Match{Round: round, Bracket: models.SegmentLosers, Position: j/2 + 1})
			b.linkWinner(survivors[j].match, idx, models.Slot1)
			b.linkWinner(survivors[j+1].match, idx, models.Slot2)
			halved = append(halved, feeder{match: idx, live: true})
		}
		survivors = halved
	}

	return survivors[0]
}
