package roster

import (
	"context"
	_ "embed"
	"fmt"

	"footycards/domain/entities"

	"gopkg.in/yaml.v3"
)

//go:embed fallback_players.yaml
var fallbackPlayers []byte

type rosterFile struct {
	Players []entities.PlayerStat `yaml:"players"`
}

// Provider serves a fixed roster as a PlayerStatsProvider
type Provider struct {
	name    string
	players []entities.PlayerStat
}

// NewFallbackProvider returns the roster built into the binary
func NewFallbackProvider() (*Provider, error) {
	return Parse("fallback-roster", fallbackPlayers)
}

// Parse builds a provider from a YAML document with a top-level players list
func Parse(name string, data []byte) (*Provider, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if len(file.Players) == 0 {
		return nil, fmt.Errorf("roster %s has no players", name)
	}
	return &Provider{name: name, players: file.Players}, nil
}

// Name implements PlayerStatsProvider
func (p *Provider) Name() string {
	return p.name
}

// FetchTopPlayers returns a copy of the roster
func (p *Provider) FetchTopPlayers(ctx context.Context) ([]entities.PlayerStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]entities.PlayerStat, len(p.players))
	copy(out, p.players)
	return out, nil
}
