package sync

import (
	"context"
	"testing"

	"github.com/cenngo/interactions/pkg/interactions/model"
)

func slashCmd(name string, ignoreGroupNames bool) *model.CommandInfo {
	return &model.CommandInfo{
		Kind:             model.CommandKindSlash,
		Name:             name,
		IgnoreGroupNames: ignoreGroupNames,
		Source:           &model.SlashCommand{Name: name, Description: "desc " + name},
	}
}

func TestBuildPayloads_NonGroupModuleEmitsIndividualCommands(t *testing.T) {
	root := &model.ModuleInfo{
		Module:   &model.Module{Name: "root"},
		Commands: []*model.CommandInfo{slashCmd("ping", false), slashCmd("pong", false)},
	}

	payloads := BuildPayloads([]*model.ModuleInfo{root})
	if len(payloads) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(payloads))
	}
	names := map[string]bool{payloads[0].Name: true, payloads[1].Name: true}
	if !names["ping"] || !names["pong"] {
		t.Fatalf("expected ping and pong, got %+v", names)
	}
}

func TestBuildPayloads_SlashGroupCollapsesToSubCommands(t *testing.T) {
	root := &model.ModuleInfo{
		Module:   &model.Module{Name: "admin", GroupName: "admin", Description: "admin commands"},
		Commands: []*model.CommandInfo{slashCmd("kick", false), slashCmd("ban", false)},
	}

	payloads := BuildPayloads([]*model.ModuleInfo{root})
	if len(payloads) != 1 {
		t.Fatalf("expected 1 group payload, got %d", len(payloads))
	}
	p := payloads[0]
	if p.Name != "admin" {
		t.Fatalf("expected group name 'admin', got %q", p.Name)
	}
	if len(p.Options) != 2 {
		t.Fatalf("expected 2 subcommand options, got %d", len(p.Options))
	}
	for _, opt := range p.Options {
		if opt.Kind != OptionKindSubCommand {
			t.Fatalf("expected OptionKindSubCommand, got %v", opt.Kind)
		}
	}
}

func TestBuildPayloads_IgnoreGroupNamesEscapesToTopLevel(t *testing.T) {
	root := &model.ModuleInfo{
		Module:   &model.Module{Name: "admin", GroupName: "admin"},
		Commands: []*model.CommandInfo{slashCmd("kick", false), slashCmd("globalping", true)},
	}

	payloads := BuildPayloads([]*model.ModuleInfo{root})
	if len(payloads) != 2 {
		t.Fatalf("expected group payload + 1 escapee, got %d", len(payloads))
	}

	var group, escapee *CommandPayload
	for _, p := range payloads {
		if p.Name == "admin" {
			group = p
		}
		if p.Name == "globalping" {
			escapee = p
		}
	}
	if group == nil || escapee == nil {
		t.Fatalf("expected both group and escapee payloads, got %+v", payloads)
	}
	if len(group.Options) != 1 {
		t.Fatalf("expected the escaped command excluded from group options, got %d", len(group.Options))
	}
}

func TestBuildPayloads_NestedSubgroupBecomesSubCommandGroup(t *testing.T) {
	child := &model.ModuleInfo{
		Module:   &model.Module{Name: "role", GroupName: "role"},
		Commands: []*model.CommandInfo{slashCmd("add", false)},
	}
	root := &model.ModuleInfo{
		Module:   &model.Module{Name: "admin", GroupName: "admin"},
		Commands: []*model.CommandInfo{slashCmd("kick", false)},
		Children: []*model.ModuleInfo{child},
	}

	payloads := BuildPayloads([]*model.ModuleInfo{root})
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	p := payloads[0]
	if len(p.Options) != 2 {
		t.Fatalf("expected 1 subcommand + 1 subcommand-group option, got %d", len(p.Options))
	}

	var group *PayloadOption
	for _, opt := range p.Options {
		if opt.Kind == OptionKindSubCommandGroup {
			group = opt
		}
	}
	if group == nil {
		t.Fatal("expected a sub_command_group option for the nested group")
	}
	if group.Name != "role" || len(group.Options) != 1 {
		t.Fatalf("unexpected subcommand-group shape: %+v", group)
	}
	if group.Options[0].Kind != OptionKindSubCommand {
		t.Fatalf("expected the nested group's command to be a subcommand, got %v", group.Options[0].Kind)
	}
}

func TestBuildPayloads_ComplexParameterFlattensOptionNames(t *testing.T) {
	cmd := &model.CommandInfo{
		Kind:   model.CommandKindSlash,
		Name:   "report",
		Source: &model.SlashCommand{Name: "report", Description: "file a report"},
		Parameters: []*model.Parameter{
			{
				Name:      "info",
				IsComplex: true,
				Fields: []*model.Parameter{
					{Name: "title", Type: model.ParameterTypeString},
					{Name: "severity", Type: model.ParameterTypeInteger},
				},
			},
		},
	}
	root := &model.ModuleInfo{Module: &model.Module{Name: "root"}, Commands: []*model.CommandInfo{cmd}}

	payloads := BuildPayloads([]*model.ModuleInfo{root})
	if len(payloads) != 1 || len(payloads[0].Options) != 2 {
		t.Fatalf("expected 2 flattened options, got %+v", payloads)
	}
	if payloads[0].Options[0].Name != "infoTitle" || payloads[0].Options[1].Name != "infoSeverity" {
		t.Fatalf("unexpected flattened names: %q, %q", payloads[0].Options[0].Name, payloads[0].Options[1].Name)
	}
}

func TestBuildPayloads_ContextCommandsEmittedIndividually(t *testing.T) {
	root := &model.ModuleInfo{
		Module: &model.Module{Name: "root"},
		Contexts: []*model.CommandInfo{
			{Kind: model.CommandKindContextUser, Name: "Warn User"},
			{Kind: model.CommandKindContextMsg, Name: "Report Message"},
		},
	}

	payloads := BuildPayloads([]*model.ModuleInfo{root})
	if len(payloads) != 2 {
		t.Fatalf("expected 2 context payloads, got %d", len(payloads))
	}
	types := map[CommandType]bool{payloads[0].Type: true, payloads[1].Type: true}
	if !types[CommandTypeUser] || !types[CommandTypeMessage] {
		t.Fatalf("expected one user and one message command, got %+v", payloads)
	}
}

// stubClient is a hand-rolled CommandRegistryClient mock, in the
// function-fields style the teacher's mockDiscordSession tests use.
type stubClient struct {
	getGlobal           func(ctx context.Context) ([]*CommandPayload, error)
	getGuild            func(ctx context.Context, guildID string) ([]*CommandPayload, error)
	bulkOverwriteGlobal func(ctx context.Context, payloads []*CommandPayload) error
	bulkOverwriteGuild  func(ctx context.Context, guildID string, payloads []*CommandPayload) error
	createGuild         func(ctx context.Context, guildID string, payload *CommandPayload) error
	deleteFn            func(ctx context.Context, guildID, commandID string) error
}

func (s *stubClient) GetGlobal(ctx context.Context) ([]*CommandPayload, error) { return s.getGlobal(ctx) }
func (s *stubClient) GetGuild(ctx context.Context, guildID string) ([]*CommandPayload, error) {
	return s.getGuild(ctx, guildID)
}
func (s *stubClient) BulkOverwriteGlobal(ctx context.Context, payloads []*CommandPayload) error {
	return s.bulkOverwriteGlobal(ctx, payloads)
}
func (s *stubClient) BulkOverwriteGuild(ctx context.Context, guildID string, payloads []*CommandPayload) error {
	return s.bulkOverwriteGuild(ctx, guildID, payloads)
}
func (s *stubClient) CreateGuild(ctx context.Context, guildID string, payload *CommandPayload) error {
	return s.createGuild(ctx, guildID, payload)
}
func (s *stubClient) Delete(ctx context.Context, guildID, commandID string) error {
	return s.deleteFn(ctx, guildID, commandID)
}

func TestEngine_SyncAll_SubstitutesExistingAndPreservesUnmatched(t *testing.T) {
	var submitted []*CommandPayload
	client := &stubClient{
		getGlobal: func(ctx context.Context) ([]*CommandPayload, error) {
			return []*CommandPayload{
				{Name: "ping", DefaultPermission: false},
				{Name: "legacy", DefaultPermission: true},
			}, nil
		},
		bulkOverwriteGlobal: func(ctx context.Context, payloads []*CommandPayload) error {
			submitted = payloads
			return nil
		},
	}

	e := New(client, nil)
	declared := []*CommandPayload{{Name: "ping", DefaultPermission: true}, {Name: "new", DefaultPermission: true}}
	if err := e.SyncAll(context.Background(), "", declared, false); err != nil {
		t.Fatalf("sync: %v", err)
	}

	byName := make(map[string]*CommandPayload, len(submitted))
	for _, p := range submitted {
		byName[p.Name] = p
	}
	if len(submitted) != 3 {
		t.Fatalf("expected 3 submitted commands (substituted + preserved + new), got %d", len(submitted))
	}
	if !byName["ping"].DefaultPermission {
		t.Fatal("expected the declared payload's DefaultPermission to win on substitution")
	}
	if _, ok := byName["legacy"]; !ok {
		t.Fatal("expected the unmatched existing command to be preserved")
	}
	if _, ok := byName["new"]; !ok {
		t.Fatal("expected the unmatched declared command to be appended")
	}
}

func TestEngine_SyncAll_DeleteMissingDropsUnmatchedExisting(t *testing.T) {
	var submitted []*CommandPayload
	client := &stubClient{
		getGuild: func(ctx context.Context, guildID string) ([]*CommandPayload, error) {
			return []*CommandPayload{{Name: "stale"}}, nil
		},
		bulkOverwriteGuild: func(ctx context.Context, guildID string, payloads []*CommandPayload) error {
			submitted = payloads
			return nil
		},
	}

	e := New(client, nil)
	if err := e.SyncAll(context.Background(), "guild-1", nil, true); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(submitted) != 0 {
		t.Fatalf("expected deleteMissing to drop the unmatched existing command, got %+v", submitted)
	}
}

func TestEngine_AddCommandsToGuild_CreatesEachIndividually(t *testing.T) {
	var created []string
	client := &stubClient{
		createGuild: func(ctx context.Context, guildID string, payload *CommandPayload) error {
			created = append(created, payload.Name)
			return nil
		},
	}

	e := New(client, nil)
	err := e.AddCommandsToGuild(context.Background(), "guild-1",
		[]*CommandPayload{{Name: "a"}, {Name: "b"}})
	if err != nil {
		t.Fatalf("add commands: %v", err)
	}
	if len(created) != 2 || created[0] != "a" || created[1] != "b" {
		t.Fatalf("expected individual creates in order, got %v", created)
	}
}

func TestEngine_SyncGlobalAndGuild_SubmitsBothScopes(t *testing.T) {
	var globalSubmitted, guildSubmitted []*CommandPayload
	client := &stubClient{
		getGlobal: func(ctx context.Context) ([]*CommandPayload, error) { return nil, nil },
		getGuild:  func(ctx context.Context, guildID string) ([]*CommandPayload, error) { return nil, nil },
		bulkOverwriteGlobal: func(ctx context.Context, payloads []*CommandPayload) error {
			globalSubmitted = payloads
			return nil
		},
		bulkOverwriteGuild: func(ctx context.Context, guildID string, payloads []*CommandPayload) error {
			guildSubmitted = payloads
			return nil
		},
	}

	e := New(client, nil)
	err := e.SyncGlobalAndGuild(context.Background(), "guild-1",
		[]*CommandPayload{{Name: "g"}}, []*CommandPayload{{Name: "h"}}, false)
	if err != nil {
		t.Fatalf("sync both: %v", err)
	}
	if len(globalSubmitted) != 1 || globalSubmitted[0].Name != "g" {
		t.Fatalf("unexpected global submission: %+v", globalSubmitted)
	}
	if len(guildSubmitted) != 1 || guildSubmitted[0].Name != "h" {
		t.Fatalf("unexpected guild submission: %+v", guildSubmitted)
	}
}
