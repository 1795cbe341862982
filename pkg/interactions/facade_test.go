package interactions

import (
	"context"
	"testing"

	"github.com/cenngo/interactions/pkg/interactions/events"
	"github.com/cenngo/interactions/pkg/interactions/model"
)

func pingModule() *model.ModuleDescriptor {
	return &model.ModuleDescriptor{
		Name: "root",
		SlashCommands: []*model.SlashCommandDescriptor{
			{
				Name:        "ping",
				Description: "pong latency",
				Parameters: []*model.ParameterDescriptor{
					{Name: "loud", Type: model.ParameterTypeBoolean, DefaultValue: false},
				},
				Handler: func(ctx context.Context, args []any, services any) (any, error) {
					return "pong", nil
				},
			},
		},
		ComponentHandlers: []*model.ComponentHandlerDescriptor{
			{
				Name: "vote:{choice}",
				Parameters: []*model.ParameterDescriptor{
					{Name: "choice", Type: model.ParameterTypeString},
				},
				Handler: func(ctx context.Context, args []any, services any) (any, error) {
					return args[0], nil
				},
			},
		},
		ModalHandlers: []*model.ModalHandlerDescriptor{
			{
				Name:            "feedback",
				TextInputFields: map[string]string{"body": "comment"},
				Handler: func(ctx context.Context, args []any, services any) (any, error) {
					return args[0], nil
				},
			},
		},
	}
}

func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	f, err := New(Options{}, model.NewStaticSource(pingModule()), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestFacade_ExecuteSlash_DispatchesRegisteredCommand(t *testing.T) {
	f := newTestFacade(t)

	result, err := f.ExecuteSlash(context.Background(), []string{"ping"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Value != "pong" {
		t.Fatalf("expected value %q, got %v", "pong", result.Value)
	}
}

func TestFacade_ExecuteSlash_UnknownPathReturnsUnknownCommand(t *testing.T) {
	f := newTestFacade(t)

	result, err := f.ExecuteSlash(context.Background(), []string{"nope"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsSuccess {
		t.Fatal("expected failure for an unregistered path")
	}
}

func TestFacade_ExecuteComponent_CapturesWildcardSegment(t *testing.T) {
	f := newTestFacade(t)

	result, err := f.ExecuteComponent(context.Background(), "vote:yes", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Value != "yes" {
		t.Fatalf("expected captured value %q, got %v", "yes", result.Value)
	}
}

func TestFacade_ExecuteModal_TranslatesSubmissionByCustomID(t *testing.T) {
	f := newTestFacade(t)

	submission := ModalSubmission{Values: map[string]string{"comment": "great job"}}
	result, err := f.ExecuteModal(context.Background(), "feedback", submission, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	modalValue, ok := result.Value.(map[string]any)
	if !ok {
		t.Fatalf("expected a field map, got %T", result.Value)
	}
	if modalValue["body"] != "great job" {
		t.Fatalf("expected body field to carry the submitted text, got %v", modalValue["body"])
	}
}

func TestFacade_RemoveModule_DropsItsCommandsFromTheMap(t *testing.T) {
	f := newTestFacade(t)

	if !f.RemoveModule(context.Background(), "root") {
		t.Fatal("expected RemoveModule to find the root module")
	}

	result, err := f.ExecuteSlash(context.Background(), []string{"ping"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsSuccess {
		t.Fatal("expected ping to be unresolvable after its module was removed")
	}
}

func TestFacade_OnSlashCommandExecuted_ReceivesOneEventPerDispatch(t *testing.T) {
	f := newTestFacade(t)

	var calls int
	var lastCommand string
	unsub := f.OnSlashCommandExecuted(func(cmd *model.CommandInfo, ctx context.Context, result *events.ExecuteResult) {
		calls++
		lastCommand = cmd.Name
	})
	defer unsub()

	if _, err := f.ExecuteSlash(context.Background(), []string{"ping"}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected exactly one event, got %d", calls)
	}
	if lastCommand != "ping" {
		t.Fatalf("expected event for command %q, got %q", "ping", lastCommand)
	}
}

func TestFacade_Stats_ReflectsRegisteredModules(t *testing.T) {
	f := newTestFacade(t)

	stats := f.Stats()
	if stats.Modules != 1 {
		t.Fatalf("expected 1 module, got %d", stats.Modules)
	}
	if stats.SlashCommands != 1 {
		t.Fatalf("expected 1 slash command, got %d", stats.SlashCommands)
	}
	if stats.ComponentHandlers != 1 {
		t.Fatalf("expected 1 component handler, got %d", stats.ComponentHandlers)
	}
	if stats.ModalHandlers != 1 {
		t.Fatalf("expected 1 modal handler, got %d", stats.ModalHandlers)
	}
}
