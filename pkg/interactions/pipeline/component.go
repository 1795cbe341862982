package pipeline

import (
	"context"
	"fmt"

	"github.com/cenngo/interactions/pkg/interactions/cmdmap"
	"github.com/cenngo/interactions/pkg/interactions/errors"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// BuildComponentArgs assembles a component handler's positional
// arguments: one converted value per wildcard capture, in the order
// cmd.Parameters declares them, followed — if the last parameter is a
// string[] — by selectValues, regardless of how many captures preceded
// it. spec.md §4.4 requires a component handler using select-menu values
// to declare that parameter last and typed string[]; this resolves the
// capture/select overlap by construction rather than by inference.
func (p *Pipeline) BuildComponentArgs(ctx context.Context, cmd *model.CommandInfo, captures []cmdmap.Capture, selectValues []string) ([]any, error) {
	params := cmd.Parameters
	hasTrailingArray := len(params) > 0 && params[len(params)-1].Type == model.ParameterTypeStringArray

	captureParams := params
	if hasTrailingArray {
		captureParams = params[:len(params)-1]
	}

	byName := make(map[string]string, len(captures))
	for _, c := range captures {
		byName[c.Name] = c.Value
	}

	args := make([]any, 0, len(params))
	for i, param := range captureParams {
		raw, ok := byName[param.Name]
		if !ok {
			if i >= len(captures) {
				return nil, errors.BadArgs(fmt.Sprintf("component handler %q has no capture for parameter %q", cmd.Name, param.Name))
			}
			raw = captures[i].Value
		}
		v, err := p.convertParameter(ctx, param, Option{Name: param.Name, Value: raw})
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if hasTrailingArray {
		args = append(args, selectValues)
	}

	return args, nil
}
