package interactions

import (
	"reflect"

	"github.com/cenngo/interactions/pkg/interactions/pipeline"
)

// ServiceLocator is the DI container contract handed to preconditions and
// handlers, simplified from pluginsdk.PluginAPI's flat-struct-of-
// registries shape to a single resolver function.
type ServiceLocator interface {
	Resolve(t reflect.Type) (any, bool)
}

// CommandOption is one resolved slash-command option, before type
// conversion.
type CommandOption = pipeline.Option

// ModalSubmission is the submitted text-input values of a modal
// interaction, keyed by custom id.
type ModalSubmission = pipeline.ModalSubmission

// FocusedOption identifies the parameter an autocomplete interaction is
// currently focused on, plus its partially-typed value.
type FocusedOption struct {
	ParameterName string
	Value         string
}

// Stats is a read-only snapshot of the registered tree's shape, grounded
// on internal/commands/health.go's HealthSummary aggregation pattern.
type Stats struct {
	Modules             int
	SlashCommands        int
	ContextCommands      int
	ComponentHandlers    int
	ModalHandlers        int
}
