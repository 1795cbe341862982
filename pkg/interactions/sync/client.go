package sync

import "context"

// CommandRegistryClient is the external platform contract spec.md §4.5
// names: two reads and four writes. A host supplies its own
// implementation (pkg/interactions/sync/discordclient.go is the default
// discordgo-backed one) so this package never depends on a concrete wire
// transport.
type CommandRegistryClient interface {
	GetGlobal(ctx context.Context) ([]*CommandPayload, error)
	GetGuild(ctx context.Context, guildID string) ([]*CommandPayload, error)
	BulkOverwriteGlobal(ctx context.Context, payloads []*CommandPayload) error
	BulkOverwriteGuild(ctx context.Context, guildID string, payloads []*CommandPayload) error
	CreateGuild(ctx context.Context, guildID string, payload *CommandPayload) error
	Delete(ctx context.Context, guildID string, commandID string) error
}
