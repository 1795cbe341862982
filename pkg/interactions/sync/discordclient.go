package sync

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/cenngo/interactions/internal/discordopt"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// DiscordClient is the default CommandRegistryClient, backed by
// bwmarrin/discordgo — grounded on the teacher's
// internal/channels/discord.Adapter, which wraps a *discordgo.Session
// behind a small interface of the calls it actually needs.
type DiscordClient struct {
	session *discordgo.Session
	appID   string
	logger  *slog.Logger
}

// NewDiscordClient wraps session for application command registration
// under appID.
func NewDiscordClient(session *discordgo.Session, appID string, logger *slog.Logger) *DiscordClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordClient{session: session, appID: appID, logger: logger.With("component", "sync.discordclient")}
}

func (c *DiscordClient) GetGlobal(ctx context.Context) ([]*CommandPayload, error) {
	return c.list(ctx, "")
}

func (c *DiscordClient) GetGuild(ctx context.Context, guildID string) ([]*CommandPayload, error) {
	return c.list(ctx, guildID)
}

func (c *DiscordClient) list(ctx context.Context, guildID string) ([]*CommandPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmds, err := c.session.ApplicationCommands(c.appID, guildID)
	if err != nil {
		return nil, err
	}
	out := make([]*CommandPayload, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, fromDiscordCommand(cmd))
	}
	return out, nil
}

func (c *DiscordClient) BulkOverwriteGlobal(ctx context.Context, payloads []*CommandPayload) error {
	return c.bulkOverwrite(ctx, "", payloads)
}

func (c *DiscordClient) BulkOverwriteGuild(ctx context.Context, guildID string, payloads []*CommandPayload) error {
	return c.bulkOverwrite(ctx, guildID, payloads)
}

func (c *DiscordClient) bulkOverwrite(ctx context.Context, guildID string, payloads []*CommandPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmds := make([]*discordgo.ApplicationCommand, 0, len(payloads))
	for _, p := range payloads {
		cmds = append(cmds, toDiscordCommand(p))
	}
	_, err := c.session.ApplicationCommandBulkOverwrite(c.appID, guildID, cmds)
	if err != nil {
		c.logger.Error("bulk overwrite failed", "guild_id", guildID, "count", len(cmds), "error", err)
	}
	return err
}

func (c *DiscordClient) CreateGuild(ctx context.Context, guildID string, payload *CommandPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.session.ApplicationCommandCreate(c.appID, guildID, toDiscordCommand(payload))
	return err
}

func (c *DiscordClient) Delete(ctx context.Context, guildID string, commandID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.session.ApplicationCommandDelete(c.appID, guildID, commandID)
}

func toDiscordCommand(p *CommandPayload) *discordgo.ApplicationCommand {
	cmd := &discordgo.ApplicationCommand{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Type:              toDiscordCommandType(p.Type),
		DefaultPermission: &p.DefaultPermission,
		Options:           toDiscordOptions(p.Options),
	}
	return cmd
}

func fromDiscordCommand(cmd *discordgo.ApplicationCommand) *CommandPayload {
	defaultPermission := true
	if cmd.DefaultPermission != nil {
		defaultPermission = *cmd.DefaultPermission
	}
	return &CommandPayload{
		ID:                cmd.ID,
		Name:              cmd.Name,
		Description:       cmd.Description,
		Type:              fromDiscordCommandType(cmd.Type),
		DefaultPermission: defaultPermission,
		Options:           fromDiscordOptions(cmd.Options),
	}
}

func toDiscordCommandType(t CommandType) discordgo.ApplicationCommandType {
	switch t {
	case CommandTypeUser:
		return discordgo.UserApplicationCommand
	case CommandTypeMessage:
		return discordgo.MessageApplicationCommand
	default:
		return discordgo.ChatApplicationCommand
	}
}

func fromDiscordCommandType(t discordgo.ApplicationCommandType) CommandType {
	switch t {
	case discordgo.UserApplicationCommand:
		return CommandTypeUser
	case discordgo.MessageApplicationCommand:
		return CommandTypeMessage
	default:
		return CommandTypeChatInput
	}
}

func toDiscordOptions(opts []*PayloadOption) []*discordgo.ApplicationCommandOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]*discordgo.ApplicationCommandOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, toDiscordOption(o))
	}
	return out
}

func toDiscordOption(o *PayloadOption) *discordgo.ApplicationCommandOption {
	optType := discordgo.ApplicationCommandOptionString
	switch o.Kind {
	case OptionKindSubCommand:
		optType = discordgo.ApplicationCommandOptionSubCommand
	case OptionKindSubCommandGroup:
		optType = discordgo.ApplicationCommandOptionSubCommandGroup
	default:
		optType = discordopt.OptionType(o.ParamType)
	}

	opt := &discordgo.ApplicationCommandOption{
		Type:         optType,
		Name:         o.Name,
		Description:  o.Description,
		Required:     o.Required,
		Autocomplete: o.Autocomplete,
		ChannelTypes: discordopt.ChannelTypes(o.ChannelTypes),
		Options:      toDiscordOptions(o.Options),
	}
	if o.Min != nil {
		opt.MinValue = o.Min
	}
	if o.Max != nil {
		opt.MaxValue = *o.Max
	}
	for _, choice := range o.Choices {
		opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  choice.Name,
			Value: choice.Value,
		})
	}
	return opt
}

func fromDiscordOptions(opts []*discordgo.ApplicationCommandOption) []*PayloadOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]*PayloadOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, fromDiscordOption(o))
	}
	return out
}

func fromDiscordOption(o *discordgo.ApplicationCommandOption) *PayloadOption {
	kind := OptionKindParameter
	switch o.Type {
	case discordgo.ApplicationCommandOptionSubCommand:
		kind = OptionKindSubCommand
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		kind = OptionKindSubCommandGroup
	}

	opt := &PayloadOption{
		Kind:         kind,
		Name:         o.Name,
		Description:  o.Description,
		Required:     o.Required,
		Autocomplete: o.Autocomplete,
		ParamType:    discordopt.FromOptionType(o.Type),
		ChannelTypes: discordopt.ChannelTypeNames(o.ChannelTypes),
		Options:      fromDiscordOptions(o.Options),
	}
	if o.MinValue != nil {
		opt.Min = o.MinValue
	}
	if o.MaxValue != 0 {
		max := o.MaxValue
		opt.Max = &max
	}
	for _, choice := range o.Choices {
		opt.Choices = append(opt.Choices, model.Choice{Name: choice.Name, Value: choice.Value})
	}
	return opt
}
