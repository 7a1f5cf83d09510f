package content

import (
	"fmt"
	"math"
)

// Datasets feed the two visualization widgets.
type Datasets struct {
	Skills       SkillGraph `yaml:"skills" json:"skills"`
	Achievements Radar      `yaml:"achievements" json:"achievements"`
}

// SkillGraph is a node/link dataset for the force-directed skills view.
type SkillGraph struct {
	Nodes []SkillNode `yaml:"nodes" json:"nodes"`
	Links []SkillLink `yaml:"links" json:"links"`
}

// SkillNode is one skill. Group selects the color family; Level is 0..100.
type SkillNode struct {
	ID    string `yaml:"id" json:"id"`
	Group int    `yaml:"group" json:"group"`
	Level int    `yaml:"level" json:"level"`
}

// SkillLink connects two skills by id.
type SkillLink struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
	Weight int    `yaml:"weight" json:"weight"`
}

// Radar is a labeled numeric series.
type Radar struct {
	Label  string    `yaml:"label" json:"label"`
	Labels []string  `yaml:"labels" json:"labels"`
	Values []float64 `yaml:"values" json:"values"`
}

// Upper bounds for dataset fields that size rendered output.
const (
	MaxLevel      = 100
	MaxLinkWeight = 100
)

// Validate checks that links reference known nodes, numeric fields are in
// range and the radar series lines up with its labels.
func (d *Datasets) Validate() error {
	nodes := make(map[string]bool, len(d.Skills.Nodes))
	for _, n := range d.Skills.Nodes {
		if n.ID == "" {
			return fmt.Errorf("skill node without id")
		}
		if n.Level < 0 || n.Level > MaxLevel {
			return fmt.Errorf("skill %q: level %d outside 0..%d", n.ID, n.Level, MaxLevel)
		}
		nodes[n.ID] = true
	}
	for _, l := range d.Skills.Links {
		if !nodes[l.Source] || !nodes[l.Target] {
			return fmt.Errorf("skill link %q -> %q references an unknown node", l.Source, l.Target)
		}
		if l.Weight < 0 || l.Weight > MaxLinkWeight {
			return fmt.Errorf("skill link %q -> %q: weight %d outside 0..%d", l.Source, l.Target, l.Weight, MaxLinkWeight)
		}
	}
	if len(d.Achievements.Labels) != len(d.Achievements.Values) {
		return fmt.Errorf("achievements: %d labels but %d values", len(d.Achievements.Labels), len(d.Achievements.Values))
	}
	for i, v := range d.Achievements.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("achievements: value %d is not finite", i)
		}
	}
	return nil
}
