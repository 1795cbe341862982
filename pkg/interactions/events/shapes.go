package events

import (
	"context"

	"github.com/cenngo/interactions/pkg/interactions/model"
)

// ExecuteResult is the uniform outcome every dispatch reports, whatever
// the handler returned or threw. It intentionally lives in this package
// rather than pipeline so event subscribers never need to import the
// pipeline package just to read a result.
type ExecuteResult struct {
	IsSuccess   bool
	Error       string
	ErrorReason string
	Exception   error
	Value       any
}

// CommandExecuted is published once per dispatch, on the one *Executed
// bus that matches the command's kind (see BusFor).
type CommandExecuted struct {
	Command *model.CommandInfo
	Ctx     context.Context
	Result  *ExecuteResult
}

// Registry is the facade's full set of buses: one Log bus plus one typed
// bus per interaction kind, grouped so the facade can construct and wire
// them as a unit.
type Registry struct {
	Log                    *Bus[LogEntry]
	SlashCommandExecuted   *Bus[CommandExecuted]
	ContextCommandExecuted *Bus[CommandExecuted]
	ComponentExecuted      *Bus[CommandExecuted]
	ModalExecuted          *Bus[CommandExecuted]
	AutocompleteExecuted   *Bus[CommandExecuted]
}

// NewRegistry creates a fully wired set of buses.
func NewRegistry() *Registry {
	return &Registry{
		Log:                    NewBus[LogEntry](nil),
		SlashCommandExecuted:   NewBus[CommandExecuted](nil),
		ContextCommandExecuted: NewBus[CommandExecuted](nil),
		ComponentExecuted:      NewBus[CommandExecuted](nil),
		ModalExecuted:          NewBus[CommandExecuted](nil),
		AutocompleteExecuted:   NewBus[CommandExecuted](nil),
	}
}

// BusFor returns the bus matching kind, so the pipeline can publish
// without a type switch at every call site.
func (r *Registry) BusFor(kind model.CommandKind) *Bus[CommandExecuted] {
	switch kind {
	case model.CommandKindSlash:
		return r.SlashCommandExecuted
	case model.CommandKindContextUser, model.CommandKindContextMsg:
		return r.ContextCommandExecuted
	case model.CommandKindComponent:
		return r.ComponentExecuted
	case model.CommandKindModal:
		return r.ModalExecuted
	default:
		return r.SlashCommandExecuted
	}
}
