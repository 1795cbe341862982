package interactions

import (
	"github.com/cenngo/interactions/pkg/interactions/builder"
	"github.com/cenngo/interactions/pkg/interactions/cmdmap"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// treeSnapshot is one immutable, fully-indexed view of the registered
// module tree. A Facade swaps its atomic pointer to a new treeSnapshot on
// every AddModules/AddModule/RemoveModule call rather than mutating maps
// in place — the teacher's internal/hooks.Registry copy-on-write style,
// applied at the granularity of the whole tree instead of one slice,
// since a single command map touches state (parent-node exact/wildcard
// buckets) shared across every path in the tree.
type treeSnapshot struct {
	roots      []*model.ModuleInfo
	slash      *cmdmap.SlashMap
	components *cmdmap.InteractionMap
	modals     *cmdmap.InteractionMap
}

// buildSnapshot flattens roots and indexes every routable CommandInfo
// into fresh maps. Slash and context commands share one SlashMap (a
// context command's Path is its single-element [name], so it sits at the
// map's root the same way a top-level slash command would); components
// and modals get their own InteractionMap, matching spec.md §4.2's two
// separate tries.
func buildSnapshot(roots []*model.ModuleInfo, opts Options) (*treeSnapshot, error) {
	flat := builder.Flatten(roots)
	syntax := cmdmap.WildcardSyntax{Open: opts.WildcardOpen, Close: opts.WildcardClose}

	slashMap := cmdmap.NewSlashMap()
	for _, cmd := range flat.Slash {
		if err := slashMap.Insert(cmd.Path, cmd); err != nil {
			return nil, err
		}
	}
	for _, cmd := range flat.Context {
		if err := slashMap.Insert(cmd.Path, cmd); err != nil {
			return nil, err
		}
	}

	components := cmdmap.NewInteractionMap(opts.InteractionCustomIDDelimiters, syntax)
	for _, cmd := range flat.Components {
		if err := components.InsertName(cmd.Name, cmd); err != nil {
			return nil, err
		}
	}

	modals := cmdmap.NewInteractionMap(opts.InteractionCustomIDDelimiters, syntax)
	for _, cmd := range flat.Modals {
		if err := modals.InsertName(cmd.Name, cmd); err != nil {
			return nil, err
		}
	}

	return &treeSnapshot{roots: roots, slash: slashMap, components: components, modals: modals}, nil
}
