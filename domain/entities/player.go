package entities

// Player is a catalog entry shared by every card drawn for that player.
// Name is the natural key.
type Player struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Team        string     `db:"team"`
	Position    string     `db:"position"`
	Nationality string     `db:"nationality"`
	ImageURL    string     `db:"image_url"`
	Rarity      RarityTier `db:"rarity"`
}

// PlayerStat is a raw record returned by a statistics provider.
// Rarity is optional; when empty it is computed from the numbers.
type PlayerStat struct {
	Name        string  `yaml:"name"`
	Team        string  `yaml:"team"`
	Position    string  `yaml:"position"`
	Nationality string  `yaml:"nationality"`
	Age         int     `yaml:"age"`
	PhotoURL    string  `yaml:"photo"`
	League      string  `yaml:"league"`
	Goals       int     `yaml:"goals"`
	Assists     int     `yaml:"assists"`
	Appearances int     `yaml:"appearances"`
	Rating      float64 `yaml:"rating"`
	Rarity      string  `yaml:"rarity"`
}

// PlayerPoolEntry is a player snapshot plus the per-drop statistics for
// one pool generation. Entries are never mutated once built.
type PlayerPoolEntry struct {
	Player  Player
	Goals   int
	Assists int
	Age     int
	League  string
	Rarity  RarityTier
}

// Contributions returns goals plus assists
func (e *PlayerPoolEntry) Contributions() int {
	return e.Goals + e.Assists
}
