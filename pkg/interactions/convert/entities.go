package convert

import (
	"context"
	"fmt"
	"reflect"

	"github.com/cenngo/interactions/pkg/interactions/errors"
)

// UserID, ChannelID, RoleID, and MentionableID are the native Go types the
// framework's built-in entity converters produce. Each is its own named
// type, not a bare string, so convert.Registry.Resolve (which dispatches
// purely by reflect.Type) can tell a user mention apart from a channel
// mention, a role mention, and a plain string parameter — a Parameter
// declares which one it wants via pipeline.goTypeFor's ParameterType
// switch, the same way it picks time.Duration for a TimeSpan parameter.
type UserID string
type ChannelID string
type RoleID string
type MentionableID string

// entityConverter reads a platform mention value (its string id form) into
// one of the four named entity types above.
type entityConverter struct {
	optionType OptionType
	entityType reflect.Type
}

func (c entityConverter) DiscordOptionType() OptionType { return c.optionType }

func (c entityConverter) Read(ctx context.Context, raw RawOption) (any, error) {
	s, ok := raw.Value.(string)
	if !ok {
		return nil, errors.ConvertFailed(raw.Name, fmt.Errorf("expected a mention id string, got %T", raw.Value))
	}
	return reflect.ValueOf(s).Convert(c.entityType).Interface(), nil
}

func (c entityConverter) CanConvertTo(t reflect.Type) bool {
	return t == c.entityType
}

func userConverter() Converter {
	return entityConverter{optionType: OptionTypeUser, entityType: reflect.TypeOf(UserID(""))}
}

func channelConverter() Converter {
	return entityConverter{optionType: OptionTypeChannel, entityType: reflect.TypeOf(ChannelID(""))}
}

func roleConverter() Converter {
	return entityConverter{optionType: OptionTypeRole, entityType: reflect.TypeOf(RoleID(""))}
}

func mentionableConverter() Converter {
	return entityConverter{optionType: OptionTypeMentionable, entityType: reflect.TypeOf(MentionableID(""))}
}
