// Package sync builds platform-facing command payloads from the metadata
// tree and reconciles them against a chat platform's registered command
// set — spec.md §4.5.
package sync

import (
	"strings"

	"github.com/cenngo/interactions/pkg/interactions/model"
)

// CommandType distinguishes the platform command surface a payload
// targets.
type CommandType string

const (
	CommandTypeChatInput CommandType = "chat_input"
	CommandTypeUser       CommandType = "user"
	CommandTypeMessage    CommandType = "message"
)

// OptionKind distinguishes a structural nesting option (SubCommand,
// SubCommandGroup) from a leaf parameter option.
type OptionKind string

const (
	OptionKindSubCommand      OptionKind = "sub_command"
	OptionKindSubCommandGroup OptionKind = "sub_command_group"
	OptionKindParameter       OptionKind = "parameter"
)

// CommandPayload is the platform-agnostic shape of one application
// command, ready to hand to a CommandRegistryClient. ID is empty for a
// freshly declared payload and populated only on payloads fetched back
// from the platform by getGlobal/getGuild.
type CommandPayload struct {
	ID                string
	Name              string
	Description       string
	Type              CommandType
	DefaultPermission bool
	Options           []*PayloadOption
}

// PayloadOption is one node of a command's option tree: a SubCommand, a
// SubCommandGroup, or a leaf Parameter option.
type PayloadOption struct {
	Kind         OptionKind
	Name         string
	Description  string
	Required     bool
	Autocomplete bool
	ParamType    model.ParameterType // meaningful only when Kind == OptionKindParameter
	ChannelTypes []string
	Choices      []model.Choice
	Min, Max     *float64
	Options      []*PayloadOption
}

// BuildPayloads walks roots and produces one CommandPayload per top-level
// command surface, per spec.md §4.5: context commands individually,
// non-group modules' slash commands individually (recursing into
// children), and slash-group modules collapsed into a single payload
// whose SubCommand/SubCommandGroup options mirror the group/subgroup
// nesting — except commands flagged IgnoreGroupNames, which escape to the
// top level at whatever depth they were declared.
func BuildPayloads(roots []*model.ModuleInfo) []*CommandPayload {
	var out []*CommandPayload
	for _, root := range roots {
		out = append(out, buildFromModule(root)...)
	}
	return out
}

func buildFromModule(info *model.ModuleInfo) []*CommandPayload {
	var out []*CommandPayload
	for _, ctxCmd := range info.Contexts {
		out = append(out, contextPayload(ctxCmd))
	}

	if !info.Module.IsSlashGroup() {
		for _, cmd := range slashCommandsOf(info) {
			out = append(out, slashPayload(cmd))
		}
		for _, child := range info.Children {
			out = append(out, buildFromModule(child)...)
		}
		return out
	}

	payload, escapees := groupPayload(info)
	out = append(out, payload)
	out = append(out, escapees...)
	return out
}

// groupPayload builds the single payload a slash-group module publishes
// as, plus any commands anywhere in its subtree that escape to top level
// via IgnoreGroupNames.
func groupPayload(info *model.ModuleInfo) (*CommandPayload, []*CommandPayload) {
	payload := &CommandPayload{
		Name:              strings.ToLower(info.Module.GroupName),
		Description:       info.Module.Description,
		Type:              CommandTypeChatInput,
		DefaultPermission: info.Module.DefaultPermission,
	}

	var escapees []*CommandPayload
	for _, cmd := range slashCommandsOf(info) {
		if cmd.IgnoreGroupNames {
			escapees = append(escapees, slashPayload(cmd))
			continue
		}
		payload.Options = append(payload.Options, subCommandOption(cmd))
	}

	for _, child := range info.Children {
		if !child.Module.IsSlashGroup() {
			// A plain module nested inside a slash-group has no platform
			// representation as an option, so its commands escape to top
			// level rather than being silently dropped.
			escapees = append(escapees, buildFromModule(child)...)
			continue
		}
		opt, childEscapees := subCommandGroupOption(child)
		payload.Options = append(payload.Options, opt)
		escapees = append(escapees, childEscapees...)
	}

	return payload, escapees
}

func subCommandGroupOption(info *model.ModuleInfo) (*PayloadOption, []*CommandPayload) {
	opt := &PayloadOption{
		Kind:        OptionKindSubCommandGroup,
		Name:        strings.ToLower(info.Module.GroupName),
		Description: info.Module.Description,
	}

	var escapees []*CommandPayload
	for _, cmd := range slashCommandsOf(info) {
		if cmd.IgnoreGroupNames {
			escapees = append(escapees, slashPayload(cmd))
			continue
		}
		opt.Options = append(opt.Options, subCommandOption(cmd))
	}

	// The builder's depth invariant keeps slash-groups at most two levels
	// deep, so info.Children here are never themselves slash-groups; this
	// walk is defensive rather than load-bearing.
	for _, child := range info.Children {
		if !child.Module.IsSlashGroup() {
			continue
		}
		childOpt, childEscapees := subCommandGroupOption(child)
		opt.Options = append(opt.Options, childOpt)
		escapees = append(escapees, childEscapees...)
	}

	return opt, escapees
}

func subCommandOption(cmd *model.CommandInfo) *PayloadOption {
	return &PayloadOption{
		Kind:        OptionKindSubCommand,
		Name:        cmd.Name,
		Description: descriptionOf(cmd),
		Options:     parameterOptions(cmd.Parameters),
	}
}

func slashPayload(cmd *model.CommandInfo) *CommandPayload {
	return &CommandPayload{
		Name:              cmd.Name,
		Description:       descriptionOf(cmd),
		Type:              CommandTypeChatInput,
		DefaultPermission: cmd.DefaultPermission,
		Options:           parameterOptions(cmd.Parameters),
	}
}

func contextPayload(cmd *model.CommandInfo) *CommandPayload {
	t := CommandTypeUser
	if cmd.Kind == model.CommandKindContextMsg {
		t = CommandTypeMessage
	}
	return &CommandPayload{
		Name:              cmd.Name,
		Type:              t,
		DefaultPermission: cmd.DefaultPermission,
	}
}

// parameterOptions converts declared Parameters to leaf option payloads,
// flattening IsComplex parameters per spec.md §4.1: each field is
// published as its own option named by joining the parent parameter name
// with the field name, e.g. parameter "info" with field "title" becomes
// the platform option "infoTitle" — the same naming the pipeline's
// argument synthesis gathers back into a field map on the way back in.
func parameterOptions(params []*model.Parameter) []*PayloadOption {
	var out []*PayloadOption
	for _, p := range params {
		out = append(out, flattenParameter(p.Name, p)...)
	}
	return out
}

func flattenParameter(publishedName string, p *model.Parameter) []*PayloadOption {
	if !p.IsComplex {
		return []*PayloadOption{{
			Kind:         OptionKindParameter,
			Name:         publishedName,
			Description:  p.Description,
			Required:     p.IsRequired,
			Autocomplete: p.AutocompleteRef != nil,
			ParamType:    p.Type,
			ChannelTypes: p.ChannelTypes,
			Choices:      p.Choices,
			Min:          p.Min,
			Max:          p.Max,
		}}
	}

	var out []*PayloadOption
	for _, field := range p.Fields {
		out = append(out, flattenParameter(flattenedName(publishedName, field.Name), field)...)
	}
	return out
}

func flattenedName(parent, field string) string {
	if field == "" {
		return parent
	}
	return parent + strings.ToUpper(field[:1]) + field[1:]
}

func slashCommandsOf(info *model.ModuleInfo) []*model.CommandInfo {
	var out []*model.CommandInfo
	for _, cmd := range info.Commands {
		if cmd.Kind == model.CommandKindSlash {
			out = append(out, cmd)
		}
	}
	return out
}

func descriptionOf(cmd *model.CommandInfo) string {
	switch src := cmd.Source.(type) {
	case *model.SlashCommand:
		return src.Description
	case *model.SlashCommandDescriptor:
		return src.Description
	}
	return ""
}
