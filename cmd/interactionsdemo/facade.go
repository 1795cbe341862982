package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/cenngo/interactions/pkg/interactions"
	"github.com/cenngo/interactions/pkg/interactions/model"
	syncengine "github.com/cenngo/interactions/pkg/interactions/sync"
)

// newDemoFacade opens a discordgo session from cfg.Token and wires it as
// the facade's CommandRegistryClient, loading exampleModules as the
// registered tree. The caller owns closing the returned session.
func newDemoFacade(cfg *demoConfig) (*interactions.Facade, *discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, nil, fmt.Errorf("create discord session: %w", err)
	}

	client := syncengine.NewDiscordClient(session, cfg.AppID, logger)

	opts := interactions.Options{AppID: cfg.AppID, Logger: logger}
	facade, err := interactions.New(opts, model.NewStaticSource(exampleModules()), client)
	if err != nil {
		session.Close()
		return nil, nil, fmt.Errorf("build facade: %w", err)
	}

	return facade, session, nil
}
