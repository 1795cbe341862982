package model

import "context"

// ModuleSource yields already-reflected module descriptors. Concrete
// attribute discovery (scanning annotated types/methods) happens entirely
// outside the core; the source is the seam, the same way
// pluginsdk.RuntimePlugin lets a plugin hand the host pre-built
// registrations instead of the host reflecting over the plugin's types.
type ModuleSource interface {
	// Modules returns the module descriptors this source contributes.
	// Called once per AddModules call; sources are expected to be cheap
	// to enumerate (any expensive discovery should happen before the
	// source is handed to the framework).
	Modules(ctx context.Context) ([]*ModuleDescriptor, error)
}

// ModuleDescriptor is the pre-reflected shape the builder consumes. A host
// without rich reflection (or one that wants full control) constructs
// these directly; a host with reflection populates them from struct tags
// and method sets.
type ModuleDescriptor struct {
	Name              string
	GroupName         string
	Description       string
	DefaultPermission bool
	DontAutoRegister  bool

	Children             []*ModuleDescriptor
	SlashCommands        []*SlashCommandDescriptor
	ContextCommands      []*ContextCommandDescriptor
	ComponentHandlers    []*ComponentHandlerDescriptor
	ModalHandlers        []*ModalHandlerDescriptor
	AutocompleteHandlers []*AutocompleteDescriptor

	Attributes    []string
	Preconditions []Precondition

	// Lifecycle is optional; when non-nil its hooks are invoked at the
	// corresponding pipeline points.
	Lifecycle ModuleLifecycle
}

// SlashCommandDescriptor is the pre-reflected shape of one slash command.
type SlashCommandDescriptor struct {
	Name              string
	Description       string
	DefaultPermission bool
	IgnoreGroupNames  bool
	Parameters        []*ParameterDescriptor
	Handler           HandlerCallback
	Attributes        []string
	Preconditions     []Precondition
}

// ParameterDescriptor is the pre-reflected shape of one parameter.
type ParameterDescriptor struct {
	Name         string
	Type         ParameterType
	IsRequired   bool
	DefaultValue any
	Description  string

	Min, Max        *float64
	ChannelTypes    []string
	Choices         []Choice
	AutocompleteRef *AutocompleteDescriptor

	IsComplex bool
	Fields    []*ParameterDescriptor

	TypeConverterRef string

	Attributes    []string
	Preconditions []Precondition
}

// ContextCommandDescriptor is the pre-reflected shape of one context
// command.
type ContextCommandDescriptor struct {
	Name              string
	Type              CommandType
	DefaultPermission bool
	Handler           HandlerCallback
	Attributes        []string
	Preconditions     []Precondition
}

// ComponentHandlerDescriptor is the pre-reflected shape of one component
// handler.
type ComponentHandlerDescriptor struct {
	Name          string
	Parameters    []*ParameterDescriptor
	Handler       HandlerCallback
	Attributes    []string
	Preconditions []Precondition
}

// ModalHandlerDescriptor is the pre-reflected shape of one modal handler.
type ModalHandlerDescriptor struct {
	Name            string
	ModalType       string
	TextInputFields map[string]string
	Parameters      []*ParameterDescriptor
	Handler         HandlerCallback
	Attributes      []string
	Preconditions   []Precondition
}

// AutocompleteDescriptor is the pre-reflected shape of one autocomplete
// handler.
type AutocompleteDescriptor struct {
	ID          string
	CommandPath []string
	Parameter   string
	Callback    AutocompleteCallback
}

// StaticSource is a ModuleSource backed by a fixed, already-built slice of
// descriptors — the equivalent of skills.LocalSource for a host that
// builds its descriptor tree in code rather than scanning a filesystem.
type StaticSource struct {
	descriptors []*ModuleDescriptor
}

// NewStaticSource wraps a fixed descriptor slice as a ModuleSource.
func NewStaticSource(descriptors ...*ModuleDescriptor) *StaticSource {
	return &StaticSource{descriptors: descriptors}
}

// Modules implements ModuleSource.
func (s *StaticSource) Modules(ctx context.Context) ([]*ModuleDescriptor, error) {
	return s.descriptors, nil
}
