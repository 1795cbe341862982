// Package model defines the in-memory command tree: modules, slash
// commands, context commands, component/modal handlers, autocomplete
// handlers, and their parameters. The tree built by pkg/interactions/builder
// is immutable once constructed; mutation happens only by building a new
// tree and swapping it in.
package model

import "context"

// CommandType distinguishes the kind of context command.
type CommandType string

const (
	CommandTypeUser    CommandType = "user"
	CommandTypeMessage CommandType = "message"
)

// ParameterType is the native value type a converter produces.
type ParameterType string

const (
	ParameterTypeString      ParameterType = "string"
	ParameterTypeInteger     ParameterType = "integer"
	ParameterTypeNumber      ParameterType = "number"
	ParameterTypeBoolean     ParameterType = "boolean"
	ParameterTypeUser        ParameterType = "user"
	ParameterTypeChannel     ParameterType = "channel"
	ParameterTypeRole        ParameterType = "role"
	ParameterTypeMentionable ParameterType = "mentionable"
	ParameterTypeStringArray ParameterType = "string[]"
	ParameterTypeTimeSpan    ParameterType = "timespan"
	ParameterTypeComplex     ParameterType = "complex"
	ParameterTypeEnum        ParameterType = "enum"
)

// Precondition is evaluated before handler dispatch. Module-level
// preconditions run before command-level ones, in declared order; the
// first failure short-circuits the pipeline.
type Precondition interface {
	// Check evaluates the precondition. ok == false means the precondition
	// failed; reason is then reported as the failure message.
	Check(ctx context.Context, cmd *CommandInfo, services any) (ok bool, reason string)
	Name() string
}

// HandlerCallback is the handler a command, component, modal, or context
// command ultimately invokes. args are positional, already type-converted
// values in declared parameter order; the modal and component pipelines
// may prepend a synthesized struct instance.
type HandlerCallback func(ctx context.Context, args []any, services any) (any, error)

// AutocompleteCallback produces suggestions for a single focused
// parameter.
type AutocompleteCallback func(ctx context.Context, focusedValue string, services any) ([]AutocompleteChoice, error)

// AutocompleteChoice is one suggestion surfaced to the platform.
type AutocompleteChoice struct {
	Name  string
	Value any
}

// ModuleLifecycle lets a module descriptor supply optional hooks invoked
// at well-defined pipeline points, replacing virtual
// BeforeExecute/AfterExecute/OnModuleBuilding methods from a base-class
// design. A ModuleDescriptor supplies it through its Lifecycle field,
// which the builder copies onto ModuleInfo.Lifecycle; the field is
// optional.
type ModuleLifecycle interface {
	// OnModuleBuilding is invoked once, synchronously, while the builder
	// is assembling this module's ModuleInfo.
	OnModuleBuilding(ctx context.Context, info *ModuleInfo) error

	// BeforeExecute runs immediately before argument synthesis begins for
	// any command in this module.
	BeforeExecute(ctx context.Context, cmd *CommandInfo) error

	// AfterExecute runs after dispatch completes (successfully or not),
	// and always runs if BeforeExecute succeeded.
	AfterExecute(ctx context.Context, cmd *CommandInfo, result any) error
}

// Choice is one (name, value) option for a parameter's allowed values,
// limited to ≤25 per parameter.
type Choice struct {
	Name  string
	Value any
}

// Parameter describes one slash-command option or one synthesized
// argument for a component/modal/context handler.
type Parameter struct {
	Name         string
	Type         ParameterType
	IsRequired   bool
	DefaultValue any
	Description  string

	Min, Max        *float64
	ChannelTypes    []string
	Choices         []Choice
	AutocompleteRef *AutocompleteHandlerInfo

	// IsComplex marks a parameter whose declared type is a struct: its
	// public fields are flattened into individual platform options named
	// after the field.
	IsComplex bool
	Fields    []*Parameter

	// TypeConverterRef, when set, forces resolution to a specific
	// converter instead of registry lookup by Type.
	TypeConverterRef string

	Attributes    []string
	Preconditions []Precondition
}

// SlashCommand is one leaf command, either top-level or nested under a
// slash-group Module.
type SlashCommand struct {
	Name              string
	Description       string
	DefaultPermission bool
	IgnoreGroupNames  bool
	Parameters        []*Parameter
	Handler           HandlerCallback
	Attributes        []string
	Preconditions     []Precondition
}

// ContextCommand carries exactly one implicit target parameter (the user
// or message the context menu was invoked on).
type ContextCommand struct {
	Name              string
	Type              CommandType
	DefaultPermission bool
	Parameter         *Parameter
	Handler           HandlerCallback
	Attributes        []string
	Preconditions     []Precondition
}

// ComponentHandler matches a message-component interaction's custom id
// against a wildcard pattern.
type ComponentHandler struct {
	Name              string // the pattern, e.g. "vote:{id:int}"
	Parameters        []*Parameter
	Handler           HandlerCallback
	SupportsWildcards bool
	Attributes        []string
	Preconditions     []Precondition
}

// ModalHandler matches a modal submission's custom id against a wildcard
// pattern. Its Parameters are the regex captures; the synthesized modal
// value (a map of TextInputFields keyed by field name) is passed to the
// handler ahead of them.
type ModalHandler struct {
	Name              string
	ModalType         string // descriptive name of the modal struct type
	TextInputFields   map[string]string // field name -> custom id
	Parameters        []*Parameter
	Handler           HandlerCallback
	SupportsWildcards bool
	Attributes        []string
	Preconditions     []Precondition
}

// AutocompleteHandlerInfo binds an autocomplete callback either to a
// specific (commandPath, parameterName) pair or to a free handler id.
type AutocompleteHandlerInfo struct {
	ID          string
	CommandPath []string
	Parameter   string
	Callback    AutocompleteCallback
}

// Module is a named group of handlers; it is a slash-group iff GroupName
// is non-empty.
type Module struct {
	Name              string
	GroupName         string
	Description       string
	DefaultPermission bool
	DontAutoRegister  bool

	Children               []*Module
	SlashCommands          []*SlashCommand
	ContextCommands        []*ContextCommand
	ComponentHandlers      []*ComponentHandler
	ModalHandlers          []*ModalHandler
	AutocompleteHandlers   []*AutocompleteHandlerInfo

	Attributes    []string
	Preconditions []Precondition

	Parent *Module // weak back-link; nil for roots
}

// IsSlashGroup reports whether this module publishes as a platform
// command group.
func (m *Module) IsSlashGroup() bool {
	return m.GroupName != ""
}

// Depth returns this module's distance from the nearest slash-group
// ancestor chain root (0 for a root group, 1 for a subgroup, ...). Used by
// the builder to enforce the depth ≤ 2 invariant.
func (m *Module) Depth() int {
	depth := 0
	for cur := m; cur != nil && cur.IsSlashGroup(); cur = cur.Parent {
		if cur.Parent == nil || !cur.Parent.IsSlashGroup() {
			break
		}
		depth++
	}
	return depth
}

// ModuleInfo, CommandInfo, and ParameterInfo are the built, attribute-
// carrying views over a Module/SlashCommand/Parameter that the map and
// pipeline operate on. They are produced once by the builder and never
// mutated afterward; see pkg/interactions/builder.
type ModuleInfo struct {
	Module   *Module
	Path     []string // full path from a root module, excluding group escapes
	Children []*ModuleInfo
	Commands []*CommandInfo
	Contexts []*CommandInfo
	Lifecycle ModuleLifecycle
}

// CommandKind distinguishes what a CommandInfo was built from.
type CommandKind string

const (
	CommandKindSlash       CommandKind = "slash"
	CommandKindContextUser CommandKind = "context_user"
	CommandKindContextMsg  CommandKind = "context_message"
	CommandKindComponent   CommandKind = "component"
	CommandKindModal       CommandKind = "modal"
)

// CommandInfo is the built, routable unit the map and pipeline dispatch
// against — a slash command, a context command, or a component/modal
// handler, all normalized to one shape.
type CommandInfo struct {
	Kind   CommandKind
	Name   string // the leaf name, or the wildcard pattern for component/modal
	Path   []string // full dotted path for slash commands ([]string{"admin","kick"})

	Module *ModuleInfo

	Parameters    []*Parameter
	Handler       HandlerCallback
	Attributes    []string
	Preconditions []Precondition

	DefaultPermission bool
	IgnoreGroupNames  bool
	SupportsWildcards bool
	TextInputFields   map[string]string

	Source any // back-reference to the descriptor (*SlashCommandDescriptor, ...) it was built from
}

// SupportsWildcardRouting implements cmdmap's optional wildcard-routing
// contract: only component and modal handlers compile their name as a
// wildcard pattern.
func (c *CommandInfo) SupportsWildcardRouting() bool {
	return c.SupportsWildcards
}
