package models

import "fmt"

// Format is the closed set of bracket formats the engine can build.
type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
)

// ParseFormat accepts the canonical names plus the CamelCase spelling used by older clients
// ("SingleElimination", "RoundRobin", ...).
func ParseFormat(s string) (Format, error) {
	switch s {
	case string(FormatSingleElimination), "SingleElimination", "single":
		return FormatSingleElimination, nil
	case string(FormatDoubleElimination), "DoubleElimination", "double":
		return FormatDoubleElimination, nil
	case string(FormatRoundRobin), "RoundRobin", "round-robin":
		return FormatRoundRobin, nil
	default:
		return "", fmt.Errorf("unsupported bracket format %q", s)
	}
}

// IsElimination reports whether matches of the format carry forward links.
func (f Format) IsElimination() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

// MinParticipants is the smallest field the format can be built for.
func (f Format) MinParticipants() int {
	return 2
}

// MaxParticipants is the largest field the format can be built for. A round robin grows with
// the square of the field, so it is capped lower than the elimination formats.
func (f Format) MaxParticipants() int {
	if f == FormatRoundRobin {
		return 1024
	}
	return 4096
}
