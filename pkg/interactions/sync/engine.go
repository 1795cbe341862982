package sync

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cenngo/interactions/pkg/interactions/errors"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// Engine reconciles a declared set of CommandPayloads against a
// platform's registered commands. Grounded on the teacher's
// internal/commands/registry.go's fetch-then-reconcile read path, with
// the mutation itself delegated entirely to CommandRegistryClient.
type Engine struct {
	client CommandRegistryClient
	logger *slog.Logger
}

// New creates an Engine over client.
func New(client CommandRegistryClient, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{client: client, logger: logger.With("component", "sync.engine")}
}

// SyncAll implements spec.md §4.5's syncAll: fetch the scope's existing
// commands, substitute any whose name matches a declared payload,
// preserve or drop the rest per deleteMissing, append declared payloads
// with no existing match, and submit the merged set via bulk-overwrite.
// guildID == "" targets the global scope.
func (e *Engine) SyncAll(ctx context.Context, guildID string, declared []*CommandPayload, deleteMissing bool) error {
	existing, err := e.fetchExisting(ctx, guildID)
	if err != nil {
		return errors.Exception("failed to fetch existing commands", err)
	}

	merged := reconcile(existing, declared, deleteMissing)
	return e.overwrite(ctx, guildID, merged)
}

// SyncGlobalAndGuild reconciles both scopes in one call, fetching the
// existing global and guild command sets concurrently and submitting both
// bulk-overwrites concurrently. AddModulesToGuild does not use it; it
// creates each command individually in the guild scope.
func (e *Engine) SyncGlobalAndGuild(ctx context.Context, guildID string, declaredGlobal, declaredGuild []*CommandPayload, deleteMissing bool) error {
	g, gctx := errgroup.WithContext(ctx)
	var existingGlobal, existingGuild []*CommandPayload
	g.Go(func() error {
		var err error
		existingGlobal, err = e.client.GetGlobal(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		existingGuild, err = e.client.GetGuild(gctx, guildID)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.Exception("failed to fetch existing commands", err)
	}

	mergedGlobal := reconcile(existingGlobal, declaredGlobal, deleteMissing)
	mergedGuild := reconcile(existingGuild, declaredGuild, deleteMissing)

	g2, gctx2 := errgroup.WithContext(ctx)
	g2.Go(func() error { return e.client.BulkOverwriteGlobal(gctx2, mergedGlobal) })
	g2.Go(func() error { return e.client.BulkOverwriteGuild(gctx2, guildID, mergedGuild) })
	if err := g2.Wait(); err != nil {
		return errors.Exception("failed to submit bulk overwrite", err)
	}
	return nil
}

// AddCommandsToGuild individually creates each payload with no overwrite
// semantics, per spec.md §4.5.
func (e *Engine) AddCommandsToGuild(ctx context.Context, guildID string, payloads []*CommandPayload) error {
	for _, p := range payloads {
		if err := e.client.CreateGuild(ctx, guildID, p); err != nil {
			return errors.Exception("failed to create guild command "+p.Name, err)
		}
	}
	return nil
}

// AddModulesToGuild builds payloads from modules and individually creates
// each one in guildID.
func (e *Engine) AddModulesToGuild(ctx context.Context, guildID string, modules []*model.ModuleInfo) error {
	return e.AddCommandsToGuild(ctx, guildID, BuildPayloads(modules))
}

func (e *Engine) fetchExisting(ctx context.Context, guildID string) ([]*CommandPayload, error) {
	if guildID == "" {
		return e.client.GetGlobal(ctx)
	}
	return e.client.GetGuild(ctx, guildID)
}

func (e *Engine) overwrite(ctx context.Context, guildID string, payloads []*CommandPayload) error {
	if guildID == "" {
		return e.client.BulkOverwriteGlobal(ctx, payloads)
	}
	return e.client.BulkOverwriteGuild(ctx, guildID, payloads)
}

// reconcile merges an existing platform command set with the declared
// set: a name present in both is substituted by the declared payload —
// the declared defaultPermission always wins, never merged with the
// platform-reported value (SPEC_FULL.md §12 Open Question #1) — a name
// present only on the platform is preserved verbatim unless deleteMissing
// drops it, and a name present only in declared is appended as a create.
func reconcile(existing, declared []*CommandPayload, deleteMissing bool) []*CommandPayload {
	declaredByName := make(map[string]*CommandPayload, len(declared))
	for _, d := range declared {
		declaredByName[d.Name] = d
	}

	seen := make(map[string]bool, len(existing))
	merged := make([]*CommandPayload, 0, len(declared)+len(existing))
	for _, ex := range existing {
		if d, ok := declaredByName[ex.Name]; ok {
			merged = append(merged, d)
			seen[ex.Name] = true
			continue
		}
		if !deleteMissing {
			merged = append(merged, ex)
		}
	}
	for _, d := range declared {
		if !seen[d.Name] {
			merged = append(merged, d)
		}
	}
	return merged
}
