package pipeline

import (
	"context"
	"testing"

	"github.com/cenngo/interactions/pkg/interactions/cmdmap"
	"github.com/cenngo/interactions/pkg/interactions/convert"
	"github.com/cenngo/interactions/pkg/interactions/errors"
	"github.com/cenngo/interactions/pkg/interactions/events"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

func newTestPipeline() (*Pipeline, *events.Registry) {
	reg := convert.NewRegistry()
	convert.RegisterBuiltins(reg)
	bus := events.NewRegistry()
	return New(reg, bus, Policy{}), bus
}

func moduleInfo() *model.ModuleInfo {
	return &model.ModuleInfo{Module: &model.Module{Name: "root"}}
}

func TestExecuteSlash_SimplePing(t *testing.T) {
	p, bus := newTestPipeline()
	var ran bool
	var eventFired int
	bus.SlashCommandExecuted.Subscribe(func(events.CommandExecuted) { eventFired++ })

	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "ping",
		Module: moduleInfo(),
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			ran = true
			return "pong", nil
		},
	}

	result, err := p.ExecuteSlash(context.Background(), cmd, nil, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !ran {
		t.Fatal("expected handler to run")
	}
	if !result.IsSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if eventFired != 1 {
		t.Fatalf("expected SlashCommandExecuted to fire exactly once, got %d", eventFired)
	}
}

func TestExecuteSlash_DefaultValueFillsMissingOptional(t *testing.T) {
	p, _ := newTestPipeline()
	var gotUser, gotReason any

	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "kick",
		Module: moduleInfo(),
		Parameters: []*model.Parameter{
			{Name: "user", Type: model.ParameterTypeUser, IsRequired: true},
			{Name: "reason", Type: model.ParameterTypeString, DefaultValue: "none"},
		},
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			gotUser = args[0]
			gotReason = args[1]
			return nil, nil
		},
	}

	_, err := p.ExecuteSlash(context.Background(), cmd, []Option{{Name: "User", Value: "U#123"}}, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotUser != convert.UserID("U#123") {
		t.Fatalf("expected user %v, got %v (%T)", convert.UserID("U#123"), gotUser, gotUser)
	}
	if gotReason != "none" {
		t.Fatalf("expected default reason 'none', got %v", gotReason)
	}
}

func TestExecuteSlash_EntityParametersResolveToDistinctTypes(t *testing.T) {
	p, _ := newTestPipeline()
	var gotUser, gotChannel, gotRole, gotMentionable any

	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "grant",
		Module: moduleInfo(),
		Parameters: []*model.Parameter{
			{Name: "user", Type: model.ParameterTypeUser, IsRequired: true},
			{Name: "channel", Type: model.ParameterTypeChannel, IsRequired: true},
			{Name: "role", Type: model.ParameterTypeRole, IsRequired: true},
			{Name: "target", Type: model.ParameterTypeMentionable, IsRequired: true},
		},
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			gotUser, gotChannel, gotRole, gotMentionable = args[0], args[1], args[2], args[3]
			return nil, nil
		},
	}

	options := []Option{
		{Name: "user", Value: "U#1"},
		{Name: "channel", Value: "C#2"},
		{Name: "role", Value: "R#3"},
		{Name: "target", Value: "M#4"},
	}
	if _, err := p.ExecuteSlash(context.Background(), cmd, options, nil); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if gotUser != convert.UserID("U#1") {
		t.Fatalf("expected a convert.UserID, got %v (%T)", gotUser, gotUser)
	}
	if gotChannel != convert.ChannelID("C#2") {
		t.Fatalf("expected a convert.ChannelID, got %v (%T)", gotChannel, gotChannel)
	}
	if gotRole != convert.RoleID("R#3") {
		t.Fatalf("expected a convert.RoleID, got %v (%T)", gotRole, gotRole)
	}
	if gotMentionable != convert.MentionableID("M#4") {
		t.Fatalf("expected a convert.MentionableID, got %v (%T)", gotMentionable, gotMentionable)
	}
}

func TestExecuteSlash_MissingRequiredArg(t *testing.T) {
	p, _ := newTestPipeline()
	var called bool
	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "kick",
		Module: moduleInfo(),
		Parameters: []*model.Parameter{
			{Name: "user", Type: model.ParameterTypeUser, IsRequired: true},
		},
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			called = true
			return nil, nil
		},
	}

	result, _ := p.ExecuteSlash(context.Background(), cmd, nil, nil)
	if called {
		t.Fatal("expected handler not to run when a required arg is missing")
	}
	if result.IsSuccess {
		t.Fatal("expected failure result")
	}
	if result.ErrorReason != string(errors.KindBadArgs) {
		t.Fatalf("expected BadArgs, got %v", result.ErrorReason)
	}
}

func TestExecuteSlash_ExtraOptionRejected(t *testing.T) {
	p, _ := newTestPipeline()
	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "ping",
		Module: moduleInfo(),
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			return nil, nil
		},
	}

	result, _ := p.ExecuteSlash(context.Background(), cmd, []Option{{Name: "unexpected", Value: "x"}}, nil)
	if result.IsSuccess {
		t.Fatal("expected failure result for an unconsumed option")
	}
	if result.ErrorReason != string(errors.KindBadArgs) {
		t.Fatalf("expected BadArgs, got %v", result.ErrorReason)
	}
}

func TestExecuteComponent_RegexCapture(t *testing.T) {
	p, _ := newTestPipeline()
	var gotID any
	cmd := &model.CommandInfo{
		Kind:              model.CommandKindComponent,
		Name:              "vote:{id:int}",
		Module:            moduleInfo(),
		SupportsWildcards: true,
		Parameters: []*model.Parameter{
			{Name: "id", Type: model.ParameterTypeInteger},
		},
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			gotID = args[0]
			return nil, nil
		},
	}

	args, err := p.BuildComponentArgs(context.Background(), cmd, []cmdmap.Capture{{Name: "id", Value: "42"}}, nil)
	if err != nil {
		t.Fatalf("build args: %v", err)
	}
	if _, err := p.ExecuteWithArgs(context.Background(), cmd, args, nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotID != int64(42) {
		t.Fatalf("expected captured id 42, got %v (%T)", gotID, gotID)
	}
}

func TestExecuteComponent_TrailingArrayGetsSelectValues(t *testing.T) {
	p, _ := newTestPipeline()
	cmd := &model.CommandInfo{
		Kind:              model.CommandKindComponent,
		Name:              "role-menu:{guild:string}",
		Module:            moduleInfo(),
		SupportsWildcards: true,
		Parameters: []*model.Parameter{
			{Name: "guild", Type: model.ParameterTypeString},
			{Name: "roles", Type: model.ParameterTypeStringArray},
		},
		Handler: func(ctx context.Context, args []any, services any) (any, error) { return nil, nil },
	}

	args, err := p.BuildComponentArgs(context.Background(), cmd,
		[]cmdmap.Capture{{Name: "guild", Value: "g1"}}, []string{"admin", "mod"})
	if err != nil {
		t.Fatalf("build args: %v", err)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != "g1" {
		t.Fatalf("expected guild capture 'g1', got %v", args[0])
	}
	roles, ok := args[1].([]string)
	if !ok || len(roles) != 2 {
		t.Fatalf("expected select values appended as []string, got %v", args[1])
	}
}

func TestBuildModalArgs_TranslatesCustomIDsToFieldNames(t *testing.T) {
	p, _ := newTestPipeline()
	cmd := &model.CommandInfo{
		Kind:            model.CommandKindModal,
		Name:            "feedback:{ticket:string}",
		Module:          moduleInfo(),
		TextInputFields: map[string]string{"Title": "title_input", "Body": "body_input"},
		Parameters: []*model.Parameter{
			{Name: "ticket", Type: model.ParameterTypeString},
		},
	}

	modal, rest, err := p.BuildModalArgs(context.Background(), cmd, ModalSubmission{
		Values: map[string]string{"title_input": "Bug report", "body_input": "It crashes"},
	}, []cmdmap.Capture{{Name: "ticket", Value: "T-1"}})
	if err != nil {
		t.Fatalf("build modal args: %v", err)
	}
	if modal["Title"] != "Bug report" || modal["Body"] != "It crashes" {
		t.Fatalf("unexpected modal fields: %+v", modal)
	}
	if len(rest) != 1 || rest[0] != "T-1" {
		t.Fatalf("unexpected captures: %+v", rest)
	}
}

func TestExecuteSlash_HandlerPanicRecovered(t *testing.T) {
	p, bus := newTestPipeline()
	var fired int
	bus.SlashCommandExecuted.Subscribe(func(events.CommandExecuted) { fired++ })

	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "boom",
		Module: moduleInfo(),
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			panic("kaboom")
		},
	}

	result, err := p.ExecuteSlash(context.Background(), cmd, nil, nil)
	if err != nil {
		t.Fatalf("did not expect ExecuteSlash itself to return an error (ThrowOnError unset): %v", err)
	}
	if result.IsSuccess {
		t.Fatal("expected a failed result from the panic")
	}
	if result.ErrorReason != string(errors.KindException) {
		t.Fatalf("expected Exception, got %v", result.ErrorReason)
	}
	if fired != 1 {
		t.Fatalf("expected exactly one published event, got %d", fired)
	}
}

func TestExecuteSlash_PreconditionFailureShortCircuits(t *testing.T) {
	p, _ := newTestPipeline()
	var called bool
	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "secret",
		Module: moduleInfo(),
		Preconditions: []model.Precondition{
			rejectingPrecondition{reason: "not an admin"},
		},
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			called = true
			return nil, nil
		},
	}

	result, _ := p.ExecuteSlash(context.Background(), cmd, nil, nil)
	if called {
		t.Fatal("expected handler not to run when a precondition fails")
	}
	if result.ErrorReason != string(errors.KindUnmetPrecondition) {
		t.Fatalf("expected UnmetPrecondition, got %v", result.ErrorReason)
	}
	if result.Error == "" {
		t.Fatal("expected a non-empty failure reason")
	}
}

func TestExecuteSlash_RunAsyncReturnsImmediately(t *testing.T) {
	reg := convert.NewRegistry()
	convert.RegisterBuiltins(reg)
	bus := events.NewRegistry()
	p := New(reg, bus, Policy{RunAsync: true})

	done := make(chan struct{})
	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "slow",
		Module: moduleInfo(),
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			<-done
			return nil, nil
		},
	}

	result, err := p.ExecuteSlash(context.Background(), cmd, nil, nil)
	close(done)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsSuccess {
		t.Fatal("expected an immediate success result for a detached dispatch")
	}
}

func TestUnknownCommand_ReturnsUnknownCommandResult(t *testing.T) {
	p, _ := newTestPipeline()
	result := p.UnknownCommand(context.Background(), nil)
	if result.IsSuccess {
		t.Fatal("expected failure result")
	}
	if result.ErrorReason != string(errors.KindUnknownCommand) {
		t.Fatalf("expected UnknownCommand, got %v", result.ErrorReason)
	}
}

func TestUnknownCommand_InvokesDeleteAck(t *testing.T) {
	reg := convert.NewRegistry()
	convert.RegisterBuiltins(reg)
	bus := events.NewRegistry()
	p := New(reg, bus, Policy{DeleteUnknownCommandAck: true})

	var deleted bool
	p.UnknownCommand(context.Background(), func(ctx context.Context) error {
		deleted = true
		return nil
	})
	if !deleted {
		t.Fatal("expected the ack deleter to be invoked")
	}
}

func TestExecuteAutocomplete_DispatchesToParameterCallback(t *testing.T) {
	p, bus := newTestPipeline()
	var fired int
	bus.AutocompleteExecuted.Subscribe(func(events.CommandExecuted) { fired++ })

	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "search",
		Module: moduleInfo(),
		Parameters: []*model.Parameter{
			{
				Name: "query",
				Type: model.ParameterTypeString,
				AutocompleteRef: &model.AutocompleteHandlerInfo{
					Callback: func(ctx context.Context, focusedValue string, services any) ([]model.AutocompleteChoice, error) {
						return []model.AutocompleteChoice{{Name: focusedValue + "-suggestion", Value: focusedValue}}, nil
					},
				},
			},
		},
	}

	choices, result := p.ExecuteAutocomplete(context.Background(), cmd, "query", "rust", nil)
	if result == nil || !result.IsSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(choices) != 1 || choices[0].Name != "rust-suggestion" {
		t.Fatalf("unexpected choices: %+v", choices)
	}
	if fired != 1 {
		t.Fatalf("expected exactly one AutocompleteExecuted publish, got %d", fired)
	}
}

func TestExecuteAutocomplete_UnknownParameterFails(t *testing.T) {
	p, _ := newTestPipeline()
	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "search",
		Module: moduleInfo(),
	}

	_, result := p.ExecuteAutocomplete(context.Background(), cmd, "missing", "x", nil)
	if result.IsSuccess {
		t.Fatal("expected failure for an unregistered autocomplete parameter")
	}
	if result.ErrorReason != string(errors.KindBadArgs) {
		t.Fatalf("expected BadArgs, got %v", result.ErrorReason)
	}
}

type rejectingPrecondition struct{ reason string }

func (r rejectingPrecondition) Check(ctx context.Context, cmd *model.CommandInfo, services any) (bool, string) {
	return false, r.reason
}
func (r rejectingPrecondition) Name() string { return "rejecting" }

func complexInfoParam() *model.Parameter {
	return &model.Parameter{
		Name:      "info",
		IsComplex: true,
		Fields: []*model.Parameter{
			{Name: "title", Type: model.ParameterTypeString, IsRequired: true},
			{Name: "severity", Type: model.ParameterTypeInteger},
		},
	}
}

func TestExecuteSlash_ComplexParameterPassesSchemaValidation(t *testing.T) {
	p, _ := newTestPipeline()
	var captured any
	cmd := &model.CommandInfo{
		Kind:       model.CommandKindSlash,
		Name:       "report",
		Module:     moduleInfo(),
		Parameters: []*model.Parameter{complexInfoParam()},
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			captured = args[0]
			return nil, nil
		},
	}

	options := []Option{{Name: "info", Value: map[string]any{"title": "outage", "severity": 2}}}
	result, err := p.ExecuteSlash(context.Background(), cmd, options, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	fields, ok := captured.(map[string]any)
	if !ok {
		t.Fatalf("expected a field map, got %T", captured)
	}
	if fields["title"] != "outage" {
		t.Fatalf("expected title %q, got %v", "outage", fields["title"])
	}
}

func TestExecuteSlash_ComplexParameterFailsSchemaValidation(t *testing.T) {
	p, _ := newTestPipeline()
	cmd := &model.CommandInfo{
		Kind:       model.CommandKindSlash,
		Name:       "report",
		Module:     moduleInfo(),
		Parameters: []*model.Parameter{complexInfoParam()},
		Handler: func(ctx context.Context, args []any, services any) (any, error) {
			t.Fatal("handler should not run when the complex argument fails schema validation")
			return nil, nil
		},
	}

	options := []Option{{Name: "info", Value: map[string]any{"severity": "2"}}}
	result, err := p.ExecuteSlash(context.Background(), cmd, options, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsSuccess {
		t.Fatal("expected failure for a complex argument missing a required field")
	}
	if result.ErrorReason != string(errors.KindBadArgs) {
		t.Fatalf("expected BadArgs, got %v", result.ErrorReason)
	}
}
