package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/entitas/internal/core/ecs"
)

// SpawnEntry creates Count entities carrying the named components.
type SpawnEntry struct {
	Count      int      `yaml:"count"`
	Components []string `yaml:"components"`
}

// PoolScene lists the spawns for one pool.
type PoolScene struct {
	Pool     string       `yaml:"pool"`
	Entities []SpawnEntry `yaml:"entities"`
}

// Scene is the initial population of a set of pools.
type Scene struct {
	Pools []PoolScene `yaml:"pools"`
}

// ComponentTable maps scene component names to functions that attach the
// component to an entity.
type ComponentTable map[string]func(*ecs.Entity)

// LoadScene loads a scene YAML file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(raw)
}

// ParseScene decodes scene YAML. Entries without a count spawn one entity.
func ParseScene(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	for i := range s.Pools {
		for j := range s.Pools[i].Entities {
			e := &s.Pools[i].Entities[j]
			if e.Count == 0 {
				e.Count = 1
			}
			if e.Count < 0 {
				return nil, fmt.Errorf("parse scene: pool %q entry %d: negative count %d", s.Pools[i].Pool, j, e.Count)
			}
		}
	}
	return &s, nil
}

// Count returns the total number of entities the scene spawns.
func (s *Scene) Count() int {
	n := 0
	for _, p := range s.Pools {
		for _, e := range p.Entities {
			n += e.Count
		}
	}
	return n
}

// Spawn creates the scene's entities in pools. Every pool and component name
// is checked before any entity is created, so a bad scene spawns nothing.
func (s *Scene) Spawn(pools map[string]*ecs.Pool, table ComponentTable) (int, error) {
	for _, ps := range s.Pools {
		if _, ok := pools[ps.Pool]; !ok {
			return 0, fmt.Errorf("spawn scene: unknown pool %q", ps.Pool)
		}
		for _, e := range ps.Entities {
			seen := make(map[string]bool, len(e.Components))
			for _, name := range e.Components {
				if _, ok := table[name]; !ok {
					return 0, fmt.Errorf("spawn scene: pool %q: unknown component %q", ps.Pool, name)
				}
				if seen[name] {
					return 0, fmt.Errorf("spawn scene: pool %q: component %q listed twice", ps.Pool, name)
				}
				seen[name] = true
			}
		}
	}

	n := 0
	for _, ps := range s.Pools {
		p := pools[ps.Pool]
		for _, entry := range ps.Entities {
			for i := 0; i < entry.Count; i++ {
				ent := p.CreateEntity()
				for _, name := range entry.Components {
					table[name](ent)
				}
				n++
			}
		}
	}
	return n, nil
}
