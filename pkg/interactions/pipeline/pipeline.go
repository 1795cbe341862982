// Package pipeline implements the per-command execution pipeline:
// argument synthesis, precondition evaluation, dispatch under a
// synchronous-or-detached policy, and uniform result reporting — spec.md
// §4.4's four steps.
//
// Grounded on the teacher's internal/agent/executor.go (panic-recovered,
// timeout-bounded dispatch over a goroutine) and
// internal/commands/registry.go's Execute (admin/args pre-checks before
// invoking a handler).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/cenngo/interactions/pkg/interactions/convert"
	"github.com/cenngo/interactions/pkg/interactions/errors"
	"github.com/cenngo/interactions/pkg/interactions/events"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// Option is one resolved interaction option, carrying the platform's raw
// value before type conversion.
type Option struct {
	Name  string
	Value any
}

// Policy bundles the pipeline's runtime configuration knobs, mirroring
// the RunAsync/ThrowOnError/DeleteUnknownCommandAck options on the
// facade's Options struct.
type Policy struct {
	RunAsync                bool
	ThrowOnError            bool
	DeleteUnknownCommandAck bool
	Logger                  *slog.Logger
}

// UnknownCommandAckDeleter is invoked when DeleteUnknownCommandAck is set
// and lookup misses; it is a seam so the pipeline never depends on a
// concrete transport.
type UnknownCommandAckDeleter func(ctx context.Context) error

// Pipeline executes resolved commands. It holds no mutable state of its
// own beyond its dependencies, so a single Pipeline is safe to share
// across goroutines and across the facade's module-tree reloads.
type Pipeline struct {
	converters *convert.Registry
	events     *events.Registry
	policy     Policy
}

// New creates a Pipeline over converters, publishing outcomes on bus.
func New(converters *convert.Registry, bus *events.Registry, policy Policy) *Pipeline {
	if policy.Logger == nil {
		policy.Logger = slog.Default()
	}
	return &Pipeline{converters: converters, events: bus, policy: policy}
}

// UnknownCommand reports an unresolved lookup, optionally deleting the
// original interaction's acknowledgement first. Lookup miss is never
// fatal to the caller — it only returns a failure result carrying a
// KindUnknownCommand error in Result.Exception.
func (p *Pipeline) UnknownCommand(ctx context.Context, deleteAck UnknownCommandAckDeleter) *events.ExecuteResult {
	if p.policy.DeleteUnknownCommandAck && deleteAck != nil {
		if err := deleteAck(ctx); err != nil {
			p.policy.Logger.Warn("failed to delete unknown-command interaction ack", "error", err)
		}
	}
	err := errors.UnknownCommand("no command registered for this interaction", nil)
	return &events.ExecuteResult{
		IsSuccess:   false,
		Error:       err.Error(),
		ErrorReason: string(err.Kind),
		Exception:   err,
	}
}

// ExecuteSlash runs the full four-step pipeline for a slash or context
// command: argument synthesis against options by declared-parameter name,
// then the shared precondition/dispatch/report tail. services is handed
// to preconditions and the handler unexamined (the DI container contract
// lives entirely outside this package).
func (p *Pipeline) ExecuteSlash(ctx context.Context, cmd *model.CommandInfo, options []Option, services any) (*events.ExecuteResult, error) {
	args, err := p.synthesizeArguments(ctx, cmd, options)
	if err != nil {
		result := resultFromError(err)
		p.publish(cmd, ctx, result)
		return result, p.maybeRethrow(err)
	}
	return p.ExecuteWithArgs(ctx, cmd, args, services)
}

// ExecuteWithArgs runs the precondition/dispatch/report tail directly
// over a pre-assembled argument list, skipping by-name argument
// synthesis. Component and modal handlers use this: their arguments are
// positional (wildcard captures, a synthesized modal struct, select-menu
// values) rather than name-matched platform options.
func (p *Pipeline) ExecuteWithArgs(ctx context.Context, cmd *model.CommandInfo, args []any, services any) (*events.ExecuteResult, error) {
	if reason, failed := p.evaluatePreconditions(ctx, cmd, services); failed {
		perr := errors.UnmetPrecondition(reason)
		result := resultFromError(perr)
		p.publish(cmd, ctx, result)
		return result, p.maybeRethrow(perr)
	}

	if lifecycle := cmd.Module.Lifecycle; lifecycle != nil {
		if err := lifecycle.BeforeExecute(ctx, cmd); err != nil {
			wrapped := errors.Exception("module BeforeExecute hook failed", err)
			result := resultFromError(wrapped)
			p.publish(cmd, ctx, result)
			return result, p.maybeRethrow(wrapped)
		}
	}

	if p.policy.RunAsync {
		go p.dispatchAndReport(ctx, cmd, args, services)
		return &events.ExecuteResult{IsSuccess: true}, nil
	}

	result := p.dispatchAndReport(ctx, cmd, args, services)
	if !result.IsSuccess && p.policy.ThrowOnError {
		return result, result.Exception
	}
	return result, nil
}

// dispatchAndReport invokes cmd.Handler with panic recovery, always
// publishes the resulting event, and always runs AfterExecute if the
// module declares one — whether the handler succeeded, failed, or
// panicked.
func (p *Pipeline) dispatchAndReport(ctx context.Context, cmd *model.CommandInfo, args []any, services any) (result *events.ExecuteResult) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Exception(fmt.Sprintf("handler panicked: %v", r), nil).
				WithContext("stack", string(debug.Stack()))
			result = resultFromError(err)
		}
		if lifecycle := cmd.Module.Lifecycle; lifecycle != nil {
			if hookErr := lifecycle.AfterExecute(ctx, cmd, result); hookErr != nil {
				p.policy.Logger.Error("module AfterExecute hook failed", "command", cmd.Name, "error", hookErr)
			}
		}
		p.publish(cmd, ctx, result)
	}()

	value, err := cmd.Handler(ctx, args, services)
	if err != nil {
		wrapped := errors.Classify(err)
		if wrapped == errors.KindException {
			p.policy.Logger.Error("handler returned an error", "command", cmd.Name, "error", err)
		}
		return resultFromError(unwrapToRoot(err))
	}
	return &events.ExecuteResult{IsSuccess: true, Value: value}
}

func (p *Pipeline) publish(cmd *model.CommandInfo, ctx context.Context, result *events.ExecuteResult) {
	if p.events == nil {
		return
	}
	p.events.BusFor(cmd.Kind).Publish(events.CommandExecuted{Command: cmd, Ctx: ctx, Result: result})
}

// ReportFailure wraps err into a failure ExecuteResult and publishes it on
// cmd's matching bus. Callers that need to surface a failure occurring
// before ExecuteWithArgs's own steps — a wildcard-capture conversion
// error while assembling a component or modal handler's arguments, for
// instance — use this so every failure still reports exactly once
// through the matching *Executed event, the same guarantee
// dispatchAndReport gives handler-originated failures.
func (p *Pipeline) ReportFailure(ctx context.Context, cmd *model.CommandInfo, err error) (*events.ExecuteResult, error) {
	result := resultFromError(err)
	p.publish(cmd, ctx, result)
	return result, p.maybeRethrow(err)
}

func (p *Pipeline) maybeRethrow(err error) error {
	if p.policy.ThrowOnError {
		return err
	}
	return nil
}

// synthesizeArguments implements spec.md §4.4 step 1: each Parameter, in
// declared order, is matched case-insensitively by name; missing
// required parameters fail with BadArgs, missing optional ones fall back
// to DefaultValue, and any option left unconsumed fails with BadArgs too.
func (p *Pipeline) synthesizeArguments(ctx context.Context, cmd *model.CommandInfo, options []Option) ([]any, error) {
	consumed := make(map[string]bool, len(options))
	byName := make(map[string]Option, len(options))
	for _, o := range options {
		byName[strings.ToLower(o.Name)] = o
	}

	args := make([]any, 0, len(cmd.Parameters))
	for _, param := range cmd.Parameters {
		opt, ok := byName[strings.ToLower(param.Name)]
		if !ok && param.IsComplex {
			fields := make(map[string]any, len(param.Fields))
			for _, f := range param.Fields {
				key := strings.ToLower(param.Name + f.Name)
				if fo, found := byName[key]; found {
					fields[f.Name] = fo.Value
					consumed[key] = true
				}
			}
			if len(fields) > 0 {
				opt, ok = Option{Name: param.Name, Value: fields}, true
			}
		}
		if !ok {
			if param.IsRequired {
				return nil, errors.BadArgs("too few parameters")
			}
			args = append(args, param.DefaultValue)
			continue
		}
		consumed[strings.ToLower(param.Name)] = true

		value, err := p.convertParameter(ctx, param, opt)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}

	for _, o := range options {
		if !consumed[strings.ToLower(o.Name)] {
			return nil, errors.BadArgs("too many parameters")
		}
	}

	return args, nil
}

func (p *Pipeline) convertParameter(ctx context.Context, param *model.Parameter, opt Option) (any, error) {
	if param.IsComplex {
		return p.convertComplex(ctx, param, opt)
	}

	var conv convert.Converter
	var err error
	if param.TypeConverterRef != "" {
		conv, err = p.converters.ResolveNamed(param.TypeConverterRef)
	} else {
		conv, err = p.converters.Resolve(goTypeFor(param))
	}
	if err != nil {
		return nil, err
	}
	value, err := conv.Read(ctx, convert.RawOption{Name: param.Name, Value: opt.Value})
	if err != nil {
		return nil, errors.ConvertFailed(param.Name, err)
	}
	return value, nil
}

// convertComplex recursively synthesizes each field of a complex
// parameter from a nested option map, per spec.md §4.1's flattening
// rule: the fields are published as individual options named
// "parentField", which synthesizeArguments gathers into a map keyed by
// field name before calling here (a map passed under the parent's own
// name is used as is). A nested complex field is read from its own
// field map inside that map.
func (p *Pipeline) convertComplex(ctx context.Context, param *model.Parameter, opt Option) (any, error) {
	raw, ok := opt.Value.(map[string]any)
	if !ok {
		return nil, errors.ConvertFailed(param.Name, fmt.Errorf("expected a field map for complex parameter, got %T", opt.Value))
	}

	if err := validateComplexShape(param, raw); err != nil {
		return nil, errors.BadArgs(fmt.Sprintf("complex parameter %q failed schema validation: %v", param.Name, err))
	}

	result := make(map[string]any, len(param.Fields))
	for _, field := range param.Fields {
		fieldVal, present := raw[field.Name]
		if !present {
			if field.IsRequired {
				return nil, errors.BadArgs(fmt.Sprintf("complex parameter %q missing required field %q", param.Name, field.Name))
			}
			result[field.Name] = field.DefaultValue
			continue
		}
		v, err := p.convertParameter(ctx, field, Option{Name: field.Name, Value: fieldVal})
		if err != nil {
			return nil, err
		}
		result[field.Name] = v
	}
	return result, nil
}

// evaluatePreconditions implements step 2: module-level preconditions run
// before command-level ones, in declared order; the first failure
// short-circuits. cmd.Preconditions already holds the full chain — the
// builder concatenates each ancestor module's preconditions ahead of the
// command's own when it assembles CommandInfo — so a single ordered pass
// here is equivalent to a separate module-then-command pass without
// double-running the module tier.
func (p *Pipeline) evaluatePreconditions(ctx context.Context, cmd *model.CommandInfo, services any) (reason string, failed bool) {
	for _, pc := range cmd.Preconditions {
		if ok, reason := pc.Check(ctx, cmd, services); !ok {
			return reason, true
		}
	}
	return "", false
}

func resultFromError(err error) *events.ExecuteResult {
	fe := errors.Classify(err)
	msg := err.Error()
	return &events.ExecuteResult{
		IsSuccess:   false,
		Error:       msg,
		ErrorReason: string(fe),
		Exception:   err,
	}
}

// unwrapToRoot walks Unwrap() until it hits a nil, wrapping the bottom
// cause in an Exception if it wasn't already a framework error — spec.md
// §4.4's "unwrap reflective-invocation wrappers to the root cause".
func unwrapToRoot(err error) error {
	type unwrapper interface{ Unwrap() error }
	cur := err
	for {
		u, ok := cur.(unwrapper)
		if !ok {
			break
		}
		next := u.Unwrap()
		if next == nil {
			break
		}
		cur = next
	}
	if _, ok := cur.(*errors.Error); ok {
		return cur
	}
	return errors.Exception(cur.Error(), cur)
}
