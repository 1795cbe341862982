package convert

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/cenngo/interactions/pkg/interactions/errors"
)

// RegisterBuiltins populates r with the framework's default converters:
// the Go primitive kinds discordgo's option types map onto directly
// (string, integer, float, bool), one exact converter for time.Duration
// (the framework's TimeSpan parameter type), and one exact converter per
// platform entity kind (User, Channel, Role, Mentionable) — spec.md
// §4.3's full built-in list.
//
// Grounded on the teacher's internal/agent/tool_registry.go, which seeds
// its tool registry with a fixed set of built-ins at construction instead
// of requiring every caller to register primitives by hand.
func RegisterBuiltins(r *Registry) {
	r.AddGeneric(stringFactory{})
	r.AddGeneric(boolFactory{})
	r.AddGeneric(intFactory{})
	r.AddGeneric(floatFactory{})
	r.Add(reflect.TypeOf(time.Duration(0)), timeSpanConverter{})
	r.Add(reflect.TypeOf(UserID("")), userConverter())
	r.Add(reflect.TypeOf(ChannelID("")), channelConverter())
	r.Add(reflect.TypeOf(RoleID("")), roleConverter())
	r.Add(reflect.TypeOf(MentionableID("")), mentionableConverter())
}

// primitiveConverter wraps a conversion func for a specific reflect.Kind
// family, used by the four string/bool/int/float generic factories below.
type primitiveConverter struct {
	optionType OptionType
	kind       reflect.Kind
	read       func(ctx context.Context, raw RawOption) (any, error)
}

func (c primitiveConverter) DiscordOptionType() OptionType { return c.optionType }

func (c primitiveConverter) Read(ctx context.Context, raw RawOption) (any, error) {
	return c.read(ctx, raw)
}

func (c primitiveConverter) CanConvertTo(t reflect.Type) bool {
	return t.Kind() == c.kind
}

// stringFactory qualifies for any type whose underlying kind is string,
// including named string types used for enums.
type stringFactory struct{}

func (stringFactory) Key() reflect.Type { return reflect.TypeOf("") }

func (stringFactory) Qualifies(t reflect.Type) bool { return t.Kind() == reflect.String }

func (stringFactory) Make(t reflect.Type) Converter {
	return &primitiveConverter{
		optionType: OptionTypeString,
		kind:       reflect.String,
		read: func(ctx context.Context, raw RawOption) (any, error) {
			s, ok := raw.Value.(string)
			if !ok {
				return nil, errors.ConvertFailed(raw.Name, fmt.Errorf("expected string, got %T", raw.Value))
			}
			return reflect.ValueOf(s).Convert(t).Interface(), nil
		},
	}
}

type boolFactory struct{}

func (boolFactory) Key() reflect.Type { return reflect.TypeOf(false) }

func (boolFactory) Qualifies(t reflect.Type) bool { return t.Kind() == reflect.Bool }

func (boolFactory) Make(t reflect.Type) Converter {
	return &primitiveConverter{
		optionType: OptionTypeBoolean,
		kind:       reflect.Bool,
		read: func(ctx context.Context, raw RawOption) (any, error) {
			switch v := raw.Value.(type) {
			case bool:
				return reflect.ValueOf(v).Convert(t).Interface(), nil
			case string:
				b, err := strconv.ParseBool(v)
				if err != nil {
					return nil, errors.ConvertFailed(raw.Name, err)
				}
				return reflect.ValueOf(b).Convert(t).Interface(), nil
			default:
				return nil, errors.ConvertFailed(raw.Name, fmt.Errorf("expected bool, got %T", raw.Value))
			}
		},
	}
}

// intFactory qualifies for any integer-kinded type, signed or unsigned,
// so a caller's own named int types (e.g. a numeric id type) resolve
// without a bespoke converter.
type intFactory struct{}

func (intFactory) Key() reflect.Type { return reflect.TypeOf(int64(0)) }

func (intFactory) Qualifies(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func (intFactory) Make(t reflect.Type) Converter {
	return &primitiveConverter{
		optionType: OptionTypeInteger,
		kind:       reflect.Int64,
		read: func(ctx context.Context, raw RawOption) (any, error) {
			n, err := asInt64(raw.Value)
			if err != nil {
				return nil, errors.ConvertFailed(raw.Name, err)
			}
			return reflect.ValueOf(n).Convert(t).Interface(), nil
		},
	}
}

type floatFactory struct{}

func (floatFactory) Key() reflect.Type { return reflect.TypeOf(float64(0)) }

func (floatFactory) Qualifies(t reflect.Type) bool {
	return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
}

func (floatFactory) Make(t reflect.Type) Converter {
	return &primitiveConverter{
		optionType: OptionTypeNumber,
		kind:       reflect.Float64,
		read: func(ctx context.Context, raw RawOption) (any, error) {
			f, err := asFloat64(raw.Value)
			if err != nil {
				return nil, errors.ConvertFailed(raw.Name, err)
			}
			return reflect.ValueOf(f).Convert(t).Interface(), nil
		},
	}
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// timeSpanConverter implements the framework's TimeSpan parameter type as
// a time.Duration, read from either a platform numeric (seconds) or a Go
// duration string ("1h30m").
type timeSpanConverter struct{}

func (timeSpanConverter) DiscordOptionType() OptionType { return OptionTypeString }

func (timeSpanConverter) Read(ctx context.Context, raw RawOption) (any, error) {
	switch v := raw.Value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			secs, serr := strconv.ParseFloat(v, 64)
			if serr != nil {
				return nil, errors.ConvertFailed(raw.Name, err)
			}
			return time.Duration(secs * float64(time.Second)), nil
		}
		return d, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case int64:
		return time.Duration(v) * time.Second, nil
	default:
		return nil, errors.ConvertFailed(raw.Name, fmt.Errorf("expected duration-like value, got %T", raw.Value))
	}
}

func (timeSpanConverter) CanConvertTo(t reflect.Type) bool {
	return t == reflect.TypeOf(time.Duration(0))
}
