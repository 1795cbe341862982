package pipeline

import (
	"reflect"
	"time"

	"github.com/cenngo/interactions/pkg/interactions/convert"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

// goTypeFor maps a declared ParameterType to the reflect.Type the
// converter registry resolves against. Each platform entity kind gets its
// own named type (convert.UserID/ChannelID/RoleID/MentionableID) rather
// than collapsing onto the bare string key string parameters use, so
// Resolve can tell a user mention apart from a channel mention and from
// plain text. Complex and enum parameters defer to TypeConverterRef-driven
// resolution elsewhere or stay on the bare string key; this covers the
// fixed platform primitive and entity shapes.
func goTypeFor(param *model.Parameter) reflect.Type {
	switch param.Type {
	case model.ParameterTypeInteger:
		return reflect.TypeOf(int64(0))
	case model.ParameterTypeNumber:
		return reflect.TypeOf(float64(0))
	case model.ParameterTypeBoolean:
		return reflect.TypeOf(false)
	case model.ParameterTypeTimeSpan:
		return reflect.TypeOf(time.Duration(0))
	case model.ParameterTypeStringArray:
		return reflect.TypeOf([]string(nil))
	case model.ParameterTypeUser:
		return reflect.TypeOf(convert.UserID(""))
	case model.ParameterTypeChannel:
		return reflect.TypeOf(convert.ChannelID(""))
	case model.ParameterTypeRole:
		return reflect.TypeOf(convert.RoleID(""))
	case model.ParameterTypeMentionable:
		return reflect.TypeOf(convert.MentionableID(""))
	case model.ParameterTypeString, model.ParameterTypeEnum:
		return reflect.TypeOf("")
	default:
		return reflect.TypeOf("")
	}
}
