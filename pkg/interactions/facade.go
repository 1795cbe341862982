// Package interactions is the framework's public surface: a Facade that
// wires the command map, builder, type converter registry, execution
// pipeline, event bus, and sync engine together behind the entry points a
// host actually calls — spec.md §6.
package interactions

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cenngo/interactions/pkg/interactions/builder"
	"github.com/cenngo/interactions/pkg/interactions/convert"
	"github.com/cenngo/interactions/pkg/interactions/errors"
	"github.com/cenngo/interactions/pkg/interactions/events"
	"github.com/cenngo/interactions/pkg/interactions/model"
	"github.com/cenngo/interactions/pkg/interactions/pipeline"
	syncengine "github.com/cenngo/interactions/pkg/interactions/sync"
)

// Facade is the framework's single entry point: registration, execution,
// sync, and event subscription all go through it. It holds no exported
// fields; every dependency is reachable only through its methods.
type Facade struct {
	mu      sync.Mutex // serializes AddModules/AddModule/RemoveModule
	tree    atomic.Pointer[treeSnapshot]
	opts    Options
	builder *builder.Builder

	converters *convert.Registry
	events     *events.Registry
	pipeline   *pipeline.Pipeline
	syncEngine *syncengine.Engine
}

// New validates opts, wires the converter registry, event bus, pipeline,
// and (if client is non-nil) the sync engine, then loads source if given.
func New(opts Options, source model.ModuleSource, client syncengine.CommandRegistryClient) (*Facade, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	converters := convert.NewRegistry()
	convert.RegisterBuiltins(converters)

	bus := events.NewRegistry()
	pl := pipeline.New(converters, bus, opts.pipelinePolicy())

	f := &Facade{
		opts:       opts,
		builder:    builder.New(),
		converters: converters,
		events:     bus,
		pipeline:   pl,
	}
	if client != nil {
		f.syncEngine = syncengine.New(client, opts.Logger)
	}

	empty, err := buildSnapshot(nil, opts)
	if err != nil {
		return nil, err
	}
	f.tree.Store(empty)

	if source != nil {
		if _, err := f.AddModules(context.Background(), source); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Converters exposes the facade's type converter registry so a host can
// register additional converters (AddGeneric/Add/AddNamed) before or
// after modules are loaded.
func (f *Facade) Converters() *convert.Registry {
	return f.converters
}

// AddModules builds source's descriptors, appends them to the current
// tree, and atomically swaps in the resulting snapshot. The whole tree is
// rebuilt and reindexed rather than mutated incrementally — the command
// map's per-node buckets are shared across every path, so there is no
// smaller unit to mutate in place without risking a reader observing a
// half-built node.
func (f *Facade) AddModules(ctx context.Context, source model.ModuleSource) ([]*model.ModuleInfo, error) {
	descriptors, err := source.Modules(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	newRoots, err := f.builder.Build(ctx, descriptors)
	if err != nil {
		return nil, err
	}

	current := f.tree.Load()
	merged := make([]*model.ModuleInfo, 0, len(current.roots)+len(newRoots))
	merged = append(merged, current.roots...)
	merged = append(merged, newRoots...)

	snap, err := buildSnapshot(merged, f.opts)
	if err != nil {
		return nil, err
	}
	f.tree.Store(snap)
	return newRoots, nil
}

// AddModule is AddModules for a single already-built descriptor.
func (f *Facade) AddModule(ctx context.Context, descriptor *model.ModuleDescriptor) (*model.ModuleInfo, error) {
	infos, err := f.AddModules(ctx, model.NewStaticSource(descriptor))
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, errors.ParseFailed("descriptor produced no module")
	}
	return infos[0], nil
}

// RemoveModule removes the root module named name and rebuilds the tree,
// reporting whether a module with that name was found.
func (f *Facade) RemoveModule(ctx context.Context, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := f.tree.Load()
	idx := -1
	for i, r := range current.roots {
		if r.Module.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	remaining := make([]*model.ModuleInfo, 0, len(current.roots)-1)
	remaining = append(remaining, current.roots[:idx]...)
	remaining = append(remaining, current.roots[idx+1:]...)

	snap, err := buildSnapshot(remaining, f.opts)
	if err != nil {
		f.opts.Logger.Error("failed to rebuild tree after RemoveModule", "module", name, "error", err)
		return false
	}
	f.tree.Store(snap)
	return true
}

// ExecuteSlash resolves path against the slash/context map and runs the
// full pipeline. path has one element for a top-level command or context
// command, more for a nested slash-group command.
func (f *Facade) ExecuteSlash(ctx context.Context, path []string, options []CommandOption, services ServiceLocator) (*events.ExecuteResult, error) {
	snap := f.tree.Load()
	match, ok := snap.slash.Lookup(path)
	if !ok {
		return f.pipeline.UnknownCommand(ctx, nil), nil
	}
	return f.pipeline.ExecuteSlash(ctx, match.Value, options, serviceArg(services))
}

// ExecuteComponent resolves customID against the component map and runs
// the handler. selectValues carries a select-menu interaction's chosen
// values, assigned to the handler's trailing string[] parameter if it
// declares one; pass nil for a non-select component (button).
func (f *Facade) ExecuteComponent(ctx context.Context, customID string, selectValues []string, services ServiceLocator) (*events.ExecuteResult, error) {
	snap := f.tree.Load()
	match, ok := snap.components.Lookup(customID)
	if !ok {
		return f.pipeline.UnknownCommand(ctx, nil), nil
	}

	args, err := f.pipeline.BuildComponentArgs(ctx, match.Value, match.Captures, selectValues)
	if err != nil {
		return f.pipeline.ReportFailure(ctx, match.Value, err)
	}
	return f.pipeline.ExecuteWithArgs(ctx, match.Value, args, serviceArg(services))
}

// ExecuteModal resolves customID against the modal map, assembles the
// synthesized modal value plus any wildcard captures, and runs the
// handler.
func (f *Facade) ExecuteModal(ctx context.Context, customID string, submission ModalSubmission, services ServiceLocator) (*events.ExecuteResult, error) {
	snap := f.tree.Load()
	match, ok := snap.modals.Lookup(customID)
	if !ok {
		return f.pipeline.UnknownCommand(ctx, nil), nil
	}

	modalValue, rest, err := f.pipeline.BuildModalArgs(ctx, match.Value, submission, match.Captures)
	if err != nil {
		return f.pipeline.ReportFailure(ctx, match.Value, err)
	}
	args := append([]any{modalValue}, rest...)
	return f.pipeline.ExecuteWithArgs(ctx, match.Value, args, serviceArg(services))
}

// ExecuteAutocomplete resolves path to a slash command and dispatches
// focused.ParameterName's autocomplete callback.
func (f *Facade) ExecuteAutocomplete(ctx context.Context, path []string, focused FocusedOption, services ServiceLocator) (*events.ExecuteResult, error) {
	snap := f.tree.Load()
	match, ok := snap.slash.Lookup(path)
	if !ok {
		return f.pipeline.UnknownCommand(ctx, nil), nil
	}
	_, result := f.pipeline.ExecuteAutocomplete(ctx, match.Value, focused.ParameterName, focused.Value, serviceArg(services))
	return result, nil
}

// SyncCommands builds payloads from the current tree and reconciles them
// against guildID's scope (or the global scope if guildID is empty) via
// syncAll. It returns an error if the facade was built without a
// CommandRegistryClient.
func (f *Facade) SyncCommands(ctx context.Context, guildID string, deleteMissing bool) error {
	if f.syncEngine == nil {
		return errors.Exception("sync: no CommandRegistryClient configured", nil)
	}
	snap := f.tree.Load()
	payloads := syncengine.BuildPayloads(snap.roots)
	return f.syncEngine.SyncAll(ctx, guildID, payloads, deleteMissing)
}

// AddCommandsToGuild individually creates cmds in guildID with no
// overwrite semantics.
func (f *Facade) AddCommandsToGuild(ctx context.Context, guildID string, cmds []*model.CommandInfo) error {
	if f.syncEngine == nil {
		return errors.Exception("sync: no CommandRegistryClient configured", nil)
	}
	roots := []*model.ModuleInfo{{Module: &model.Module{Name: "adhoc"}, Commands: cmds}}
	return f.syncEngine.AddCommandsToGuild(ctx, guildID, syncengine.BuildPayloads(roots))
}

// AddModulesToGuild individually creates every command in mods' subtree
// in guildID with no overwrite semantics.
func (f *Facade) AddModulesToGuild(ctx context.Context, guildID string, mods []*model.ModuleInfo) error {
	if f.syncEngine == nil {
		return errors.Exception("sync: no CommandRegistryClient configured", nil)
	}
	return f.syncEngine.AddModulesToGuild(ctx, guildID, mods)
}

// OnLog subscribes to the facade's log stream.
func (f *Facade) OnLog(fn func(events.LogEntry)) (unsubscribe func()) {
	return f.events.Log.Subscribe(fn)
}

// OnSlashCommandExecuted subscribes to every completed slash-command
// dispatch.
func (f *Facade) OnSlashCommandExecuted(fn func(*model.CommandInfo, context.Context, *events.ExecuteResult)) (unsubscribe func()) {
	return f.events.SlashCommandExecuted.Subscribe(adaptExecuted(fn))
}

// OnContextCommandExecuted subscribes to every completed context-command
// dispatch.
func (f *Facade) OnContextCommandExecuted(fn func(*model.CommandInfo, context.Context, *events.ExecuteResult)) (unsubscribe func()) {
	return f.events.ContextCommandExecuted.Subscribe(adaptExecuted(fn))
}

// OnComponentExecuted subscribes to every completed component-handler
// dispatch.
func (f *Facade) OnComponentExecuted(fn func(*model.CommandInfo, context.Context, *events.ExecuteResult)) (unsubscribe func()) {
	return f.events.ComponentExecuted.Subscribe(adaptExecuted(fn))
}

// OnModalExecuted subscribes to every completed modal-handler dispatch.
func (f *Facade) OnModalExecuted(fn func(*model.CommandInfo, context.Context, *events.ExecuteResult)) (unsubscribe func()) {
	return f.events.ModalExecuted.Subscribe(adaptExecuted(fn))
}

// OnAutocompleteExecuted subscribes to every completed autocomplete
// dispatch.
func (f *Facade) OnAutocompleteExecuted(fn func(*model.CommandInfo, context.Context, *events.ExecuteResult)) (unsubscribe func()) {
	return f.events.AutocompleteExecuted.Subscribe(adaptExecuted(fn))
}

// Stats returns a read-only snapshot of the registered tree's shape.
func (f *Facade) Stats() Stats {
	snap := f.tree.Load()
	flat := builder.Flatten(snap.roots)
	return Stats{
		Modules:           countModules(snap.roots),
		SlashCommands:     len(flat.Slash),
		ContextCommands:   len(flat.Context),
		ComponentHandlers: len(flat.Components),
		ModalHandlers:     len(flat.Modals),
	}
}

func countModules(roots []*model.ModuleInfo) int {
	n := 0
	for _, r := range roots {
		n++
		n += countModules(r.Children)
	}
	return n
}

func adaptExecuted(fn func(*model.CommandInfo, context.Context, *events.ExecuteResult)) events.HandlerFunc[events.CommandExecuted] {
	return func(e events.CommandExecuted) {
		fn(e.Command, e.Ctx, e.Result)
	}
}

func serviceArg(services ServiceLocator) any {
	if services == nil {
		return nil
	}
	return services
}
