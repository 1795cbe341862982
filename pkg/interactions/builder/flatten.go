package builder

import "github.com/cenngo/interactions/pkg/interactions/model"

// Flattened collects every routable CommandInfo out of a ModuleInfo tree,
// split by the bucket the facade routes it through: SlashMap for slash
// and context commands, InteractionMap for component and modal handlers.
type Flattened struct {
	Slash      []*model.CommandInfo
	Context    []*model.CommandInfo
	Components []*model.CommandInfo
	Modals     []*model.CommandInfo
}

// Flatten walks roots and every descendant module, bucketing each
// CommandInfo by kind. Order is preserved depth-first, module-before-
// children, matching descriptor declaration order.
func Flatten(roots []*model.ModuleInfo) Flattened {
	var out Flattened
	for _, r := range roots {
		flattenInto(&out, r)
	}
	return out
}

func flattenInto(out *Flattened, info *model.ModuleInfo) {
	for _, cmd := range info.Commands {
		switch cmd.Kind {
		case model.CommandKindSlash:
			out.Slash = append(out.Slash, cmd)
		case model.CommandKindComponent:
			out.Components = append(out.Components, cmd)
		case model.CommandKindModal:
			out.Modals = append(out.Modals, cmd)
		}
	}
	out.Context = append(out.Context, info.Contexts...)

	for _, child := range info.Children {
		flattenInto(out, child)
	}
}
