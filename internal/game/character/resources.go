package character

import (
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Pool is the current/maximum pair of one resource.
//
// Invariant: 0 <= Current <= Max.
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

func (p *Pool) setMax(m int) {
	if delta := m - p.Max; delta > 0 {
		p.Current += delta
	}
	p.Max = m
	p.Current = min(max(p.Current, 0), p.Max)
}

// Resource returns the pool for r.
func (c *Character) Resource(r ruleset.Resource) Pool {
	if p, ok := c.pools[r]; ok {
		return *p
	}
	return Pool{}
}

// Spend deducts n from r.
//
// Postcondition: returns false with no mutation when r is unknown, n < 1, or
// fewer than n points remain.
func (c *Character) Spend(r ruleset.Resource, n int) bool {
	p, ok := c.pools[r]
	if !ok || n < 1 || p.Current < n {
		return false
	}
	p.Current -= n
	return true
}

// Restore refills r to its maximum.
func (c *Character) Restore(r ruleset.Resource) {
	if p, ok := c.pools[r]; ok {
		p.Current = p.Max
	}
}

// RestoreAll refills every pool and hit points.
func (c *Character) RestoreAll() {
	for _, p := range c.pools {
		p.Current = p.Max
	}
	c.currentHP = c.maxHP
}

// Damage reduces current hit points by n, never below zero.
func (c *Character) Damage(n int) {
	if n <= 0 {
		return
	}
	c.currentHP = max(0, c.currentHP-n)
}

// Heal raises current hit points by n, never above the maximum.
func (c *Character) Heal(n int) {
	if n <= 0 {
		return
	}
	c.currentHP = min(c.maxHP, c.currentHP+n)
}
