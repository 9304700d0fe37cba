package history

import (
	"slices"
	"strings"
)

// Params is a string map that remembers insertion order. Setting an existing
// key replaces its value in place.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Value returns the trimmed value of key, or "" when it is absent.
func (p *Params) Value(key string) string {
	return strings.TrimSpace(p.values[key])
}

// First returns the value of the first present key.
func (p *Params) First(keys ...string) (string, string, bool) {
	for _, key := range keys {
		if v, ok := p.values[key]; ok {
			return key, v, true
		}
	}
	return "", "", false
}

func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p *Params) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
}

func (p *Params) Keys() []string {
	return slices.Clone(p.keys)
}

func (p *Params) Len() int {
	return len(p.keys)
}

func (p *Params) Clone() *Params {
	c := &Params{keys: slices.Clone(p.keys), values: make(map[string]string, len(p.values))}
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}
