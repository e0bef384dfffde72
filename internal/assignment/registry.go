package assignment

import (
	"planner/internal/config"
	"planner/pkg/selector"
)

// Leaves registers the assignment leaf selectors for p under the kinds
// "change", "swap" and "shed".
func Leaves(p *Problem) config.Registry {
	return config.Registry{
		"change": func(def config.SelectorDef) (selector.MoveSelector, error) {
			return NewChangeMoveSelector(p, def.Random), nil
		},
		"swap": func(def config.SelectorDef) (selector.MoveSelector, error) {
			return NewSwapMoveSelector(p, def.Random), nil
		},
		"shed": func(def config.SelectorDef) (selector.MoveSelector, error) {
			return NewShedMoveSelector(def.Random), nil
		},
	}
}
