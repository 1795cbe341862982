package interactions

import (
	"log/slog"

	"github.com/cenngo/interactions/pkg/interactions/pipeline"
)

// Options configures a Facade, mirroring the teacher's
// channels/discord.Config + Validate() pattern: a plain struct with a
// Validate method that fills in defaults rather than a functional-options
// API.
type Options struct {
	// AppID is the platform application id sync submits commands under.
	AppID string

	// LogLevel is carried in Options but not read by the Facade: nothing
	// is published on the Log stream, so it filters nothing, and it does
	// not affect the framework's own slog output.
	LogLevel slog.Level

	// RunAsync, when true, dispatches every handler on a detached
	// goroutine; ExecuteSlash/ExecuteComponent/ExecuteModal return
	// immediately with a provisional success result.
	RunAsync bool

	// ThrowOnError makes the Execute* methods return the handler's error
	// alongside the failure result, instead of only reporting it through
	// the matching *Executed event.
	ThrowOnError bool

	// InteractionCustomIDDelimiters splits an inbound custom id into
	// segments for InteractionMap routing. Empty means no splitting: the
	// whole custom id is matched as a single segment.
	InteractionCustomIDDelimiters string

	// DeleteUnknownCommandAck, when true, has pipeline.UnknownCommand
	// call the ack deleter it is given before reporting the failure. The
	// Facade's Execute* methods pass no deleter, so on a lookup miss
	// through the Facade no acknowledgement is deleted.
	DeleteUnknownCommandAck bool

	// WildcardOpen/WildcardClose delimit a named wildcard capture in a
	// component/modal handler's pattern, e.g. "{" and "}" for "vote:{id}".
	WildcardOpen  string
	WildcardClose string

	// Logger receives the framework's own structured logs. Defaulted to
	// slog.Default() by Validate if nil.
	Logger *slog.Logger
}

// Validate fills in Options defaults, the way discord.Config.Validate
// does: WildcardOpen/Close default to "{"/"}", delimiters default to
// none, and Logger defaults to slog.Default().
func (o *Options) Validate() error {
	if o.WildcardOpen == "" {
		o.WildcardOpen = "{"
	}
	if o.WildcardClose == "" {
		o.WildcardClose = "}"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

func (o Options) pipelinePolicy() pipeline.Policy {
	return pipeline.Policy{
		RunAsync:                o.RunAsync,
		ThrowOnError:            o.ThrowOnError,
		DeleteUnknownCommandAck: o.DeleteUnknownCommandAck,
		Logger:                  o.Logger,
	}
}
