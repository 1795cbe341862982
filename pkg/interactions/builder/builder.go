// Package builder turns a tree of model.ModuleDescriptor values into the
// immutable model.ModuleInfo/model.CommandInfo tree the command map and
// pipeline operate on, enforcing every build-time invariant up front so a
// bad declaration fails fast instead of surfacing as a runtime dispatch
// error.
//
// Grounded on the teacher's internal/commands.Registry.Register, which
// validates and rejects bad command declarations synchronously at
// registration time rather than deferring to first use, and on
// pkg/pluginsdk.Manifest.Validate's fail-fast style.
package builder

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cenngo/interactions/pkg/interactions/errors"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

const (
	maxNameLength        = 32
	minDescriptionLength = 1
	maxDescriptionLength = 100
	maxParameters        = 25
	maxChoices           = 25
	// maxSlashGroupDepth bounds Module.Depth(), which counts levels beyond
	// a root slash-group (0 for a lone group, 1 for group->subgroup). A
	// 3-level chain (group->subgroup->subgroup) reports depth 2 and is
	// rejected, matching spec.md §8's "group depth 2 accepted; depth 3
	// rejected" in terms of total group count in the chain.
	maxSlashGroupDepth = 1
)

var nameRegexp = regexp.MustCompile(`^[-_\p{L}\p{N}]{1,32}$`)

// Builder validates and assembles ModuleDescriptor trees into ModuleInfo
// trees. It is stateless and safe to reuse and share across goroutines;
// all state lives in the arguments and return values of Build.
type Builder struct{}

// New creates a Builder.
func New() *Builder {
	return &Builder{}
}

// Build validates descriptors and assembles them into root ModuleInfo
// nodes. Every invariant violation aborts the whole call with a
// *errors.Error of kind KindParseFailed or KindComplexParameterCycle;
// the framework never installs a partially built tree.
func (b *Builder) Build(ctx context.Context, descriptors []*model.ModuleDescriptor) ([]*model.ModuleInfo, error) {
	roots := make([]*model.ModuleInfo, 0, len(descriptors))
	for _, d := range descriptors {
		info, err := b.buildModule(ctx, d, nil, nil, nil, nil, true, false)
		if err != nil {
			return nil, err
		}
		roots = append(roots, info)
	}
	return roots, nil
}

// buildModule assembles one ModuleDescriptor, inheriting accumulated
// state from its parent chain. parentPath is the slash-path prefix
// contributed by slash-group ancestors; parentAttrs/parentPreconds are
// concatenated ahead of this module's own. defaultPermission and
// dontAutoRegister inherit by AND/OR composition rather than simple
// override: once an ancestor restricts default permission (false) or
// opts out of auto-registration (true), every descendant does too,
// regardless of what it declares for itself.
func (b *Builder) buildModule(
	ctx context.Context,
	d *model.ModuleDescriptor,
	parent *model.ModuleInfo,
	parentPath []string,
	parentAttrs []string,
	parentPreconds []model.Precondition,
	parentDefaultPermission bool,
	parentDontAutoRegister bool,
) (*model.ModuleInfo, error) {
	if d == nil {
		return nil, errors.ParseFailed("nil module descriptor")
	}

	defaultPermission := parentDefaultPermission && d.DefaultPermission
	dontAutoRegister := parentDontAutoRegister || d.DontAutoRegister

	mod := &model.Module{
		Name:              d.Name,
		GroupName:         d.GroupName,
		Description:       d.Description,
		DefaultPermission: defaultPermission,
		DontAutoRegister:  dontAutoRegister,
		Attributes:        concatStrings(parentAttrs, d.Attributes),
		Preconditions:     concatPreconditions(parentPreconds, d.Preconditions),
	}
	if parent != nil {
		mod.Parent = parent.Module
	}

	if mod.IsSlashGroup() {
		if err := validateGroupName(mod.GroupName); err != nil {
			return nil, err
		}
		if mod.Description != "" {
			if err := validateDescription(mod.Description); err != nil {
				return nil, err
			}
		}
		if mod.Depth() > maxSlashGroupDepth {
			return nil, errors.ParseFailed(fmt.Sprintf(
				"module %q exceeds the maximum slash-group chain depth of %d", mod.Name, maxSlashGroupDepth))
		}
	}

	path := parentPath
	if mod.IsSlashGroup() {
		path = append(append([]string{}, parentPath...), mod.GroupName)
	}

	info := &model.ModuleInfo{
		Module:    mod,
		Path:      path,
		Lifecycle: d.Lifecycle,
	}

	for _, cmdDesc := range d.SlashCommands {
		cmd, err := buildSlashCommand(cmdDesc, info, path, mod.Attributes, mod.Preconditions, defaultPermission)
		if err != nil {
			return nil, err
		}
		info.Commands = append(info.Commands, cmd)
	}
	for _, ctxDesc := range d.ContextCommands {
		cmd, err := buildContextCommand(ctxDesc, info, mod.Attributes, mod.Preconditions, defaultPermission)
		if err != nil {
			return nil, err
		}
		info.Contexts = append(info.Contexts, cmd)
	}
	for _, compDesc := range d.ComponentHandlers {
		cmd, err := buildComponentHandler(compDesc, info, mod.Attributes, mod.Preconditions)
		if err != nil {
			return nil, err
		}
		info.Commands = append(info.Commands, cmd)
	}
	for _, modalDesc := range d.ModalHandlers {
		cmd, err := buildModalHandler(modalDesc, info, mod.Attributes, mod.Preconditions)
		if err != nil {
			return nil, err
		}
		info.Commands = append(info.Commands, cmd)
	}
	for _, acDesc := range d.AutocompleteHandlers {
		info.Module.AutocompleteHandlers = append(info.Module.AutocompleteHandlers, &model.AutocompleteHandlerInfo{
			ID:          acDesc.ID,
			CommandPath: acDesc.CommandPath,
			Parameter:   acDesc.Parameter,
			Callback:    acDesc.Callback,
		})
	}

	for _, childDesc := range d.Children {
		child, err := b.buildModule(ctx, childDesc, info, path, mod.Attributes, mod.Preconditions, defaultPermission, dontAutoRegister)
		if err != nil {
			return nil, err
		}
		mod.Children = append(mod.Children, child.Module)
		info.Children = append(info.Children, child)
	}

	if info.Lifecycle != nil {
		if err := info.Lifecycle.OnModuleBuilding(ctx, info); err != nil {
			return nil, errors.New(errors.KindParseFailed, fmt.Sprintf("module %q OnModuleBuilding hook failed", mod.Name), err)
		}
	}

	return info, nil
}

func buildSlashCommand(d *model.SlashCommandDescriptor, module *model.ModuleInfo, groupPath []string, parentAttrs []string, parentPreconds []model.Precondition, parentDefaultPermission bool) (*model.CommandInfo, error) {
	if err := validateName(d.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(d.Description); err != nil {
		return nil, err
	}
	params, err := buildParameters(d.Parameters)
	if err != nil {
		return nil, err
	}

	path := []string{d.Name}
	if !d.IgnoreGroupNames {
		path = append(append([]string{}, groupPath...), d.Name)
	}

	return &model.CommandInfo{
		Kind:              model.CommandKindSlash,
		Name:              d.Name,
		Path:              path,
		Module:            module,
		Parameters:        params,
		Handler:           d.Handler,
		Attributes:        concatStrings(parentAttrs, d.Attributes),
		Preconditions:     concatPreconditions(parentPreconds, d.Preconditions),
		DefaultPermission: parentDefaultPermission && d.DefaultPermission,
		IgnoreGroupNames:  d.IgnoreGroupNames,
		Source:            d,
	}, nil
}

func buildContextCommand(d *model.ContextCommandDescriptor, module *model.ModuleInfo, parentAttrs []string, parentPreconds []model.Precondition, parentDefaultPermission bool) (*model.CommandInfo, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, errors.ParseFailed("context command name is required")
	}
	kind := model.CommandKindContextUser
	if d.Type == model.CommandTypeMessage {
		kind = model.CommandKindContextMsg
	}
	return &model.CommandInfo{
		Kind:              kind,
		Name:              d.Name,
		Path:              []string{d.Name},
		Module:            module,
		Handler:           d.Handler,
		Attributes:        concatStrings(parentAttrs, d.Attributes),
		Preconditions:     concatPreconditions(parentPreconds, d.Preconditions),
		DefaultPermission: parentDefaultPermission && d.DefaultPermission,
		Source:            d,
	}, nil
}

func buildComponentHandler(d *model.ComponentHandlerDescriptor, module *model.ModuleInfo, parentAttrs []string, parentPreconds []model.Precondition) (*model.CommandInfo, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, errors.ParseFailed("component handler name is required")
	}
	params, err := buildParameters(d.Parameters)
	if err != nil {
		return nil, err
	}
	return &model.CommandInfo{
		Kind:              model.CommandKindComponent,
		Name:              d.Name,
		Module:            module,
		Parameters:        params,
		Handler:           d.Handler,
		Attributes:        concatStrings(parentAttrs, d.Attributes),
		Preconditions:     concatPreconditions(parentPreconds, d.Preconditions),
		SupportsWildcards: true,
		Source:            d,
	}, nil
}

func buildModalHandler(d *model.ModalHandlerDescriptor, module *model.ModuleInfo, parentAttrs []string, parentPreconds []model.Precondition) (*model.CommandInfo, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, errors.ParseFailed("modal handler name is required")
	}
	params, err := buildParameters(d.Parameters)
	if err != nil {
		return nil, err
	}
	return &model.CommandInfo{
		Kind:              model.CommandKindModal,
		Name:              d.Name,
		Module:            module,
		Parameters:        params,
		Handler:           d.Handler,
		Attributes:        concatStrings(parentAttrs, d.Attributes),
		Preconditions:     concatPreconditions(parentPreconds, d.Preconditions),
		SupportsWildcards: true,
		TextInputFields:   d.TextInputFields,
		Source:            d,
	}, nil
}

func buildParameters(descs []*model.ParameterDescriptor) ([]*model.Parameter, error) {
	if len(descs) > maxParameters {
		return nil, errors.ParseFailed(fmt.Sprintf("parameter count %d exceeds the maximum of %d", len(descs), maxParameters))
	}
	params := make([]*model.Parameter, 0, len(descs))
	for _, d := range descs {
		p, err := buildParameter(d, nil)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	if err := validateParameterOrder(params); err != nil {
		return nil, err
	}
	return params, nil
}

// validateParameterOrder enforces that required parameters precede optional
// ones in the declared order, matching the ordering Discord's own option
// list requires — a descriptor that declares an optional parameter before a
// required one fails here at build time instead of at sync time as an
// opaque API rejection.
func validateParameterOrder(params []*model.Parameter) error {
	seenOptional := false
	for _, p := range params {
		if !p.IsRequired {
			seenOptional = true
			continue
		}
		if seenOptional {
			return errors.ParseFailed(fmt.Sprintf("parameter %q is required but follows an optional parameter", p.Name))
		}
	}
	return nil
}

func buildParameter(d *model.ParameterDescriptor, stack map[string]bool) (*model.Parameter, error) {
	if len(d.Choices) > maxChoices {
		return nil, errors.ParseFailed(fmt.Sprintf("parameter %q choice count %d exceeds the maximum of %d", d.Name, len(d.Choices), maxChoices))
	}

	p := &model.Parameter{
		Name:             d.Name,
		Type:             d.Type,
		IsRequired:       d.IsRequired,
		DefaultValue:     d.DefaultValue,
		Description:      d.Description,
		Min:              d.Min,
		Max:              d.Max,
		ChannelTypes:     d.ChannelTypes,
		Choices:          d.Choices,
		IsComplex:        d.IsComplex,
		TypeConverterRef: d.TypeConverterRef,
		Attributes:       d.Attributes,
		Preconditions:    d.Preconditions,
	}
	if d.AutocompleteRef != nil {
		p.AutocompleteRef = &model.AutocompleteHandlerInfo{
			ID:          d.AutocompleteRef.ID,
			CommandPath: d.AutocompleteRef.CommandPath,
			Parameter:   d.AutocompleteRef.Parameter,
			Callback:    d.AutocompleteRef.Callback,
		}
	}

	if d.IsComplex {
		typeKey := d.TypeConverterRef
		if typeKey == "" {
			typeKey = d.Name
		}
		if stack == nil {
			stack = make(map[string]bool)
		}
		if stack[typeKey] {
			return nil, errors.ComplexParameterCycle(fmt.Sprintf("complex parameter %q revisits type %q already on the recursion stack", d.Name, typeKey))
		}
		stack[typeKey] = true

		fields := make([]*model.Parameter, 0, len(d.Fields))
		for _, fieldDesc := range d.Fields {
			field, err := buildParameter(fieldDesc, stack)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}
		if err := validateParameterOrder(fields); err != nil {
			return nil, err
		}
		p.Fields = fields
		delete(stack, typeKey)
	}

	return p, nil
}

func validateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return errors.ParseFailed(fmt.Sprintf("command name %q must match %s", name, nameRegexp.String()))
	}
	if name != strings.ToLower(name) {
		return errors.ParseFailed(fmt.Sprintf("command name %q must be lowercase", name))
	}
	return nil
}

func validateGroupName(name string) error {
	if len(name) == 0 || len(name) > maxNameLength {
		return errors.ParseFailed(fmt.Sprintf("group name %q must be 1-%d characters", name, maxNameLength))
	}
	if !nameRegexp.MatchString(name) {
		return errors.ParseFailed(fmt.Sprintf("group name %q must match %s", name, nameRegexp.String()))
	}
	if name != strings.ToLower(name) {
		return errors.ParseFailed(fmt.Sprintf("group name %q must be lowercase", name))
	}
	return nil
}

func validateDescription(desc string) error {
	n := len([]rune(desc))
	if n < minDescriptionLength || n > maxDescriptionLength {
		return errors.ParseFailed(fmt.Sprintf("description must be %d-%d characters, got %d", minDescriptionLength, maxDescriptionLength, n))
	}
	return nil
}

func concatStrings(parent, child []string) []string {
	if len(parent) == 0 {
		return child
	}
	out := make([]string, 0, len(parent)+len(child))
	out = append(out, parent...)
	out = append(out, child...)
	return out
}

func concatPreconditions(parent, child []model.Precondition) []model.Precondition {
	if len(parent) == 0 {
		return child
	}
	out := make([]model.Precondition, 0, len(parent)+len(child))
	out = append(out, parent...)
	out = append(out, child...)
	return out
}
