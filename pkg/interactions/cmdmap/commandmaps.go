package cmdmap

import "github.com/cenngo/interactions/pkg/interactions/model"

// SlashMap routes a word-split slash-command path to a *model.CommandInfo.
// Slash commands never use wildcard routing, so every insert lands in the
// exact bucket; SlashMap exists mainly to give the facade a typed handle
// distinct from InteractionMap.
type SlashMap struct {
	m *Map[*model.CommandInfo]
}

// NewSlashMap creates an empty slash-command map.
func NewSlashMap() *SlashMap {
	return &SlashMap{m: New[*model.CommandInfo](DefaultWildcardSyntax)}
}

func (s *SlashMap) Insert(path []string, info *model.CommandInfo) error {
	return Insert(s.m, path, info)
}

func (s *SlashMap) Lookup(path []string) (Match[*model.CommandInfo], bool) {
	return Lookup(s.m, path)
}

func (s *SlashMap) Remove(path []string) bool {
	return Remove(s.m, path)
}

func (s *SlashMap) Root() *Node[*model.CommandInfo] {
	return s.m.Root()
}

// InteractionMap routes a delimiter-split custom id to a
// *model.CommandInfo, supporting wildcard/regex leaves for component and
// modal handlers.
type InteractionMap struct {
	m          *Map[*model.CommandInfo]
	delimiters string
}

// NewInteractionMap creates an empty interaction map using delimiters to
// split inbound custom ids and syntax to compile handler name patterns.
func NewInteractionMap(delimiters string, syntax WildcardSyntax) *InteractionMap {
	return &InteractionMap{m: New[*model.CommandInfo](syntax), delimiters: delimiters}
}

// InsertName inserts info keyed by its own Name, split the same way a
// runtime custom id would be.
func (i *InteractionMap) InsertName(name string, info *model.CommandInfo) error {
	return Insert(i.m, SplitCustomID(name, i.delimiters), info)
}

// Lookup splits customID and resolves it against the map.
func (i *InteractionMap) Lookup(customID string) (Match[*model.CommandInfo], bool) {
	return Lookup(i.m, SplitCustomID(customID, i.delimiters))
}

// Remove removes the entry registered under name.
func (i *InteractionMap) Remove(name string) bool {
	return Remove(i.m, SplitCustomID(name, i.delimiters))
}

func (i *InteractionMap) Root() *Node[*model.CommandInfo] {
	return i.m.Root()
}
