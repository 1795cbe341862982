// Package discordopt maps this framework's platform-agnostic parameter
// and channel-type vocabulary onto discordgo's concrete application
// command wire types. It is a pure mapping layer used only by the sync
// payload translation in pkg/interactions/sync/discordclient.go, kept
// out of pkg/interactions so the core stays free of a concrete platform
// dependency per the "no concrete platform DTOs" scope boundary.
package discordopt

import (
	"github.com/bwmarrin/discordgo"

	"github.com/cenngo/interactions/pkg/interactions/model"
)

// OptionType maps a declared Parameter type to its discordgo option type.
// Types without a native Discord equivalent (StringArray, TimeSpan) fall
// back to a string option — Discord has no array or duration option
// type, and wire-format encoding of that fallback is the concrete
// transport detail this framework is scoped to stay out of.
func OptionType(t model.ParameterType) discordgo.ApplicationCommandOptionType {
	switch t {
	case model.ParameterTypeString, model.ParameterTypeEnum, model.ParameterTypeStringArray, model.ParameterTypeTimeSpan:
		return discordgo.ApplicationCommandOptionString
	case model.ParameterTypeInteger:
		return discordgo.ApplicationCommandOptionInteger
	case model.ParameterTypeNumber:
		return discordgo.ApplicationCommandOptionNumber
	case model.ParameterTypeBoolean:
		return discordgo.ApplicationCommandOptionBoolean
	case model.ParameterTypeUser:
		return discordgo.ApplicationCommandOptionUser
	case model.ParameterTypeChannel:
		return discordgo.ApplicationCommandOptionChannel
	case model.ParameterTypeRole:
		return discordgo.ApplicationCommandOptionRole
	case model.ParameterTypeMentionable:
		return discordgo.ApplicationCommandOptionMentionable
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

// FromOptionType is OptionType's inverse, used when translating an
// existing platform command (fetched by getGlobal/getGuild) back into a
// CommandPayload so it can round-trip through the reconciliation step.
func FromOptionType(t discordgo.ApplicationCommandOptionType) model.ParameterType {
	switch t {
	case discordgo.ApplicationCommandOptionInteger:
		return model.ParameterTypeInteger
	case discordgo.ApplicationCommandOptionNumber:
		return model.ParameterTypeNumber
	case discordgo.ApplicationCommandOptionBoolean:
		return model.ParameterTypeBoolean
	case discordgo.ApplicationCommandOptionUser:
		return model.ParameterTypeUser
	case discordgo.ApplicationCommandOptionChannel:
		return model.ParameterTypeChannel
	case discordgo.ApplicationCommandOptionRole:
		return model.ParameterTypeRole
	case discordgo.ApplicationCommandOptionMentionable:
		return model.ParameterTypeMentionable
	default:
		return model.ParameterTypeString
	}
}

var channelTypeNames = map[string]discordgo.ChannelType{
	"guild_text":         discordgo.ChannelTypeGuildText,
	"guild_voice":        discordgo.ChannelTypeGuildVoice,
	"guild_category":     discordgo.ChannelTypeGuildCategory,
	"guild_announcement": discordgo.ChannelTypeGuildNews,
	"guild_forum":        discordgo.ChannelTypeGuildForum,
	"guild_stage_voice":  discordgo.ChannelTypeGuildStageVoice,
}

// ChannelTypes maps declared channel-type names to discordgo's enum,
// silently skipping names it doesn't recognize rather than failing the
// whole payload translation over one unsupported channel type.
func ChannelTypes(names []string) []discordgo.ChannelType {
	if len(names) == 0 {
		return nil
	}
	out := make([]discordgo.ChannelType, 0, len(names))
	for _, n := range names {
		if t, ok := channelTypeNames[n]; ok {
			out = append(out, t)
		}
	}
	return out
}

// ChannelTypeNames is ChannelTypes's inverse.
func ChannelTypeNames(types []discordgo.ChannelType) []string {
	if len(types) == 0 {
		return nil
	}
	byValue := make(map[discordgo.ChannelType]string, len(channelTypeNames))
	for name, t := range channelTypeNames {
		byValue[t] = name
	}
	out := make([]string, 0, len(types))
	for _, t := range types {
		if n, ok := byValue[t]; ok {
			out = append(out, n)
		}
	}
	return out
}
