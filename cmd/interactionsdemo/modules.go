package main

import (
	"context"
	"fmt"

	"github.com/cenngo/interactions/pkg/interactions/model"
)

// exampleModules builds a small, hard-coded descriptor tree: a top-level
// "ping" command and a "note" slash-group with "add"/"list" children, one
// component handler, and one modal handler — enough surface to exercise
// sync and the full execution pipeline without a real discord session.
func exampleModules() *model.ModuleDescriptor {
	return &model.ModuleDescriptor{
		Name:        "demo",
		Description: "interactionsdemo example commands",
		SlashCommands: []*model.SlashCommandDescriptor{
			{
				Name:        "ping",
				Description: "replies with pong",
				Handler: func(ctx context.Context, args []any, services any) (any, error) {
					return "pong", nil
				},
			},
		},
		Children: []*model.ModuleDescriptor{
			{
				Name:        "note",
				GroupName:   "note",
				Description: "manage notes",
				SlashCommands: []*model.SlashCommandDescriptor{
					{
						Name:        "add",
						Description: "add a note",
						Parameters: []*model.ParameterDescriptor{
							{Name: "text", Type: model.ParameterTypeString, IsRequired: true, Description: "note body"},
						},
						Handler: func(ctx context.Context, args []any, services any) (any, error) {
							return fmt.Sprintf("saved: %v", args[0]), nil
						},
					},
					{
						Name:        "list",
						Description: "list notes",
						Handler: func(ctx context.Context, args []any, services any) (any, error) {
							return "no notes yet", nil
						},
					},
				},
			},
		},
		ComponentHandlers: []*model.ComponentHandlerDescriptor{
			{
				Name: "note:delete:{id}",
				Parameters: []*model.ParameterDescriptor{
					{Name: "id", Type: model.ParameterTypeString},
				},
				Handler: func(ctx context.Context, args []any, services any) (any, error) {
					return fmt.Sprintf("deleted note %v", args[0]), nil
				},
			},
		},
		ModalHandlers: []*model.ModalHandlerDescriptor{
			{
				Name:            "note:edit",
				TextInputFields: map[string]string{"body": "note_body"},
				Handler: func(ctx context.Context, args []any, services any) (any, error) {
					return args[0], nil
				},
			},
		},
	}
}
