package domain

// Batch is a set of named blendshape values bound for one destination port.
// Names are unique within a batch; iteration order carries no meaning.
type Batch struct {
	// Values maps blendshape names to their weights.
	Values map[string]float32 `json:"data"`

	// Port is the destination UDP port on the target host.
	Port uint16 `json:"port"`
}

// NewBatch creates an empty batch for the given port.
func NewBatch(port uint16) Batch {
	return Batch{
		Values: make(map[string]float32),
		Port:   port,
	}
}

// Set adds or replaces the value for name.
func (b *Batch) Set(name string, value float32) {
	if b.Values == nil {
		b.Values = make(map[string]float32)
	}
	b.Values[name] = value
}

// Size returns the number of entries, which is also the number of
// datagrams a successful send produces.
func (b Batch) Size() int {
	return len(b.Values)
}

// Empty returns true if the batch has no entries.
func (b Batch) Empty() bool {
	return len(b.Values) == 0
}
