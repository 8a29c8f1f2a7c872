package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEntry is returned when a record misses a field scoring depends on.
	ErrMalformedEntry = errors.New("malformed catalog entry")
	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("duplicate agent id")
)

// Catalog is the read-only, load-once set of agents. It is safe for
// concurrent reads because nothing mutates it after New returns.
type Catalog struct {
	agents []Agent
	index  map[string]int
}

// New validates records and builds a Catalog that preserves their order.
func New(records []Agent) (*Catalog, error) {
	c := &Catalog{
		agents: make([]Agent, 0, len(records)),
		index:  make(map[string]int, len(records)),
	}
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: missing id: %w", i, ErrMalformedEntry)
		}
		if len(r.Strengths) == 0 {
			return nil, fmt.Errorf("agent %s: no strengths: %w", r.ID, ErrMalformedEntry)
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("agent %s: %w", r.ID, ErrDuplicateID)
		}
		c.index[r.ID] = len(c.agents)
		c.agents = append(c.agents, r)
	}
	return c, nil
}

// Len returns the number of agents.
func (c *Catalog) Len() int { return len(c.agents) }

// All returns the agents in catalog order. The slice is a copy.
func (c *Catalog) All() []Agent {
	out := make([]Agent, len(c.agents))
	copy(out, c.agents)
	return out
}

// Get looks up an agent by id.
func (c *Catalog) Get(id string) (*Agent, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	a := c.agents[i]
	return &a, true
}

// IDs returns agent ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.agents))
	for i, a := range c.agents {
		ids[i] = a.ID
	}
	return ids
}
