package entities

// DropResult is the outcome of a successful draw.
// CardID is empty when the card could not be saved. Degraded is set when
// the pool served stale or fallback data.
type DropResult struct {
	Entry    PlayerPoolEntry
	CardID   string
	Saved    bool
	Degraded bool
}
