package pipeline

import (
	"context"

	"github.com/cenngo/interactions/pkg/interactions/cmdmap"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// ModalSubmission is the transport-agnostic shape of a submitted modal:
// the submitted text-input values, keyed by the custom id the platform
// attached to each field.
type ModalSubmission struct {
	Values map[string]string
}

// BuildModalArgs assembles a modal handler's positional arguments. The
// first argument is the synthesized modal value — out of scope's "no
// concrete reflection" means this core never instantiates a real Go
// struct type, so it returns a map[string]any keyed by the handler's
// declared field name (d.TextInputFields maps field name -> custom id,
// looked up here to translate the submission back to field names) — a
// host that wants a concrete struct decodes this map itself. Remaining
// arguments are the wildcard captures, converted the same way component
// handler captures are.
func (p *Pipeline) BuildModalArgs(ctx context.Context, cmd *model.CommandInfo, submission ModalSubmission, captures []cmdmap.Capture) (modal map[string]any, rest []any, err error) {
	modal = make(map[string]any, len(cmd.TextInputFields))
	for field, customID := range cmd.TextInputFields {
		modal[field] = submission.Values[customID]
	}

	byName := make(map[string]string, len(captures))
	for _, c := range captures {
		byName[c.Name] = c.Value
	}

	rest = make([]any, 0, len(cmd.Parameters))
	for i, param := range cmd.Parameters {
		raw, ok := byName[param.Name]
		if !ok && i < len(captures) {
			raw = captures[i].Value
		}
		v, cerr := p.convertParameter(ctx, param, Option{Name: param.Name, Value: raw})
		if cerr != nil {
			return nil, nil, cerr
		}
		rest = append(rest, v)
	}

	return modal, rest, nil
}
