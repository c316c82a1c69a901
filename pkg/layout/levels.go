package layout

import "strings"

// Story is the number of floors of a multi-level stand.
type Story int

const (
	Ground Story = iota
	TwoStory
	ThreeStory
)

// Floor elevations of a multi-level stand.
const (
	LevelBase = 0.2
	LevelStep = 2.5
)

func (s Story) String() string {
	switch s {
	case TwoStory:
		return "twoStory"
	case ThreeStory:
		return "threeStory"
	default:
		return "ground"
	}
}

// ParseStory resolves a story name. Numeric forms ("1", "2", "3") are
// accepted. Unknown names resolve to Ground with ok false.
func ParseStory(name string) (s Story, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ground", "1", "one", "single":
		return Ground, true
	case "twostory", "two_story", "2", "two":
		return TwoStory, true
	case "threestory", "three_story", "3", "three":
		return ThreeStory, true
	default:
		return Ground, false
	}
}

// Levels returns the floor elevations of the story count, lowest first.
// The last entry is the top floor.
func (s Story) Levels() []float64 {
	n := int(s) + 1
	if n < 1 || n > 3 {
		n = 1
	}
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = LevelBase + float64(i)*LevelStep
	}
	return levels
}

// Top returns the elevation of the top floor.
func (s Story) Top() float64 {
	l := s.Levels()
	return l[len(l)-1]
}
