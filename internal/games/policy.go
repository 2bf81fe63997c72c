package games

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicyYAML []byte

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Policy maps every game type to the direction in which its scores rank.
type Policy struct {
	directions map[GameType]Direction
}

type policyFile struct {
	Games map[string]Direction `yaml:"games"`
}

// LoadPolicy parses a policy document. Every game type must be present
// exactly once with a valid direction.
func LoadPolicy(data []byte) (Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Policy{}, fmt.Errorf("parsing policy: %w", err)
	}

	p := Policy{directions: make(map[GameType]Direction, len(all))}
	for name, dir := range f.Games {
		gt, err := Parse(name)
		if err != nil {
			return Policy{}, fmt.Errorf("policy entry: %w", err)
		}
		if dir != Ascending && dir != Descending {
			return Policy{}, fmt.Errorf("policy entry %s: invalid direction %q", name, dir)
		}
		p.directions[gt] = dir
	}
	for _, gt := range all {
		if _, ok := p.directions[gt]; !ok {
			return Policy{}, fmt.Errorf("policy missing game type %s", gt)
		}
	}
	return p, nil
}

func LoadPolicyFile(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	return LoadPolicy(data)
}

var defaultPolicy = mustLoadDefault()

func mustLoadDefault() Policy {
	p, err := LoadPolicy(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded ranking policy: %v", err))
	}
	return p
}

func DefaultPolicy() Policy {
	return defaultPolicy
}

// Direction panics on an unknown game type; callers validate input first.
func (p Policy) Direction(gt GameType) Direction {
	d, ok := p.directions[gt]
	if !ok {
		panic(fmt.Sprintf("no ranking direction for game type %q", gt))
	}
	return d
}

// Better reports whether score a ranks strictly ahead of score b.
func (p Policy) Better(gt GameType, a, b float64) bool {
	if p.Direction(gt) == Ascending {
		return a < b
	}
	return a > b
}
