package pipeline

import (
	"context"
	"fmt"

	"github.com/cenngo/interactions/pkg/interactions/errors"
	"github.com/cenngo/interactions/pkg/interactions/events"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// ExecuteAutocomplete resolves paramName on cmd and invokes its
// autocomplete callback, publishing on the AutocompleteExecuted bus
// regardless of cmd.Kind (BusFor's kind switch doesn't cover
// autocomplete, since the resolved command is always the owning slash
// command, not a distinct autocomplete CommandInfo).
func (p *Pipeline) ExecuteAutocomplete(ctx context.Context, cmd *model.CommandInfo, paramName string, focusedValue string, services any) ([]model.AutocompleteChoice, *events.ExecuteResult) {
	var param *model.Parameter
	for _, candidate := range cmd.Parameters {
		if candidate.Name == paramName {
			param = candidate
			break
		}
	}
	if param == nil || param.AutocompleteRef == nil || param.AutocompleteRef.Callback == nil {
		err := errors.BadArgs(fmt.Sprintf("no autocomplete handler registered for parameter %q", paramName))
		result := resultFromError(err)
		p.publishAutocomplete(cmd, ctx, result)
		return nil, result
	}

	choices, err := param.AutocompleteRef.Callback(ctx, focusedValue, services)
	if err != nil {
		result := resultFromError(errors.Exception("autocomplete handler failed", err))
		p.publishAutocomplete(cmd, ctx, result)
		return nil, result
	}

	result := &events.ExecuteResult{IsSuccess: true, Value: choices}
	p.publishAutocomplete(cmd, ctx, result)
	return choices, result
}

func (p *Pipeline) publishAutocomplete(cmd *model.CommandInfo, ctx context.Context, result *events.ExecuteResult) {
	if p.events == nil {
		return
	}
	p.events.AutocompleteExecuted.Publish(events.CommandExecuted{Command: cmd, Ctx: ctx, Result: result})
}
