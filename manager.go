package commodore

import (
	"context"
	"reflect"
)

// Settings are the manager toggles, read at the decision point each one
// affects: insertion for the flag index, verification for the permission
// override, the end of the suggestion walk for the forced candidate.
type Settings struct {
	// LiberalFlagParsing attaches flags from the last literal component on
	// instead of only at the final component.
	LiberalFlagParsing bool
	// EnforceIntermediaryPermissions makes a command-owning node use its
	// own permission instead of the propagated union.
	EnforceIntermediaryPermissions bool
	// ForceSuggestion emits one empty candidate when the suggestion walk
	// returns nothing, for platforms requiring at least one suggestion.
	ForceSuggestion bool
}

// RegistrationHandler advertises commands to a host platform. Return
// values are ignored by the core.
type RegistrationHandler interface {
	Register(cmd *Command) error
	UnregisterRoot(component *Component) error
}

// SyntaxFormatter renders the correct syntax of a chain for failure
// messages. It is not consulted by the walks themselves.
type SyntaxFormatter func(sender interface{}, components []*Component, node *Node) string

// PreHook runs at the entry of parse and suggest and may reject the
// context before the walk starts.
type PreHook func(ctx *CommandContext, input *CommandInput) error

// Manager owns the command tree and dispatches parse, execution and
// suggestion requests over it.
type Manager struct {
	tree      *CommandTree
	settings  Settings
	checker   PermissionChecker
	regHandler RegistrationHandler
	formatter SyntaxFormatter
	processor SuggestionProcessor
	hook      PreHook
	commands  *StringCommandMap
}

// Option configures a Manager.
type Option func(m *Manager)

// WithSettings sets the manager settings.
func WithSettings(s Settings) Option { return func(m *Manager) { m.settings = s } }

// WithPermissionChecker supplies the checker deciding atomic permissions.
// Without one, every atomic permission is granted.
func WithPermissionChecker(c PermissionChecker) Option { return func(m *Manager) { m.checker = c } }

// WithRegistrationHandler supplies the handler advertising commands.
func WithRegistrationHandler(h RegistrationHandler) Option {
	return func(m *Manager) { m.regHandler = h }
}

// WithSyntaxFormatter replaces the default syntax formatter.
func WithSyntaxFormatter(f SyntaxFormatter) Option { return func(m *Manager) { m.formatter = f } }

// WithSuggestionProcessor supplies the suggestion post-processor.
func WithSuggestionProcessor(p SuggestionProcessor) Option {
	return func(m *Manager) { m.processor = p }
}

// WithPreHook supplies the hook run before every parse and suggest walk.
func WithPreHook(h PreHook) Option { return func(m *Manager) { m.hook = h } }

// NewManager returns a Manager with the given options applied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		formatter: FormatSyntax,
		commands:  NewStringCommandMap(),
	}
	m.tree = newTree(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Settings returns the active settings.
func (m *Manager) Settings() Settings { return m.settings }

// Tree returns the command tree.
func (m *Manager) Tree() *CommandTree { return m.tree }

// Register builds the command declared by b and inserts it into the tree.
func (m *Manager) Register(b *Builder) (*Command, error) {
	cmd, err := b.Build()
	if err != nil {
		return nil, err
	}
	return cmd, m.RegisterCommand(cmd)
}

// RegisterCommand inserts an already built command into the tree.
func (m *Manager) RegisterCommand(cmd *Command) error {
	if err := m.tree.Insert(cmd); err != nil {
		return err
	}
	m.commands.Put(cmd.String(), cmd)
	return nil
}

// DeleteRootCommand removes the root command named name and its whole
// subtree. In-flight walks must have completed; see CommandTree.
func (m *Manager) DeleteRootCommand(name string) error {
	removed, err := m.tree.DeleteRecursively(name)
	if err != nil {
		return err
	}
	for _, cmd := range removed {
		m.commands.Remove(cmd.String())
	}
	return nil
}

// Commands returns all registered commands in registration order.
func (m *Manager) Commands() []*Command { return m.commands.Values() }

// RootComponents returns the components of the root's direct children.
func (m *Manager) RootComponents() []*Component {
	children := m.tree.Root().Children()
	a := make([]*Component, 0, len(children))
	for _, c := range children {
		a = append(a, c.Component())
	}
	return a
}

// Parse resolves line into a command for sender, fully populating the
// returned context with the parsed argument values.
func (m *Manager) Parse(ctx context.Context, sender interface{}, line string) (*Command, *CommandContext, error) {
	cctx := newCommandContext(ctx, sender, m)
	input := NewInput(line)
	if m.hook != nil {
		if err := m.hook(cctx, input); err != nil {
			return nil, cctx, err
		}
	}
	cmd, err := m.tree.parse(cctx, input)
	if err != nil {
		return nil, cctx, err
	}
	if !cmd.senderAssignable(sender) {
		return nil, cctx, &InvalidSenderTypeError{
			Command:  cmd,
			Required: cmd.SenderType().String(),
			Actual:   senderTypeName(sender),
		}
	}
	return cmd, cctx, nil
}

// Execute parses line and runs the resolved command's handler.
func (m *Manager) Execute(ctx context.Context, sender interface{}, line string) error {
	cmd, cctx, err := m.Parse(ctx, sender, line)
	if err != nil {
		return err
	}
	return cmd.Handler().Run(cctx)
}

// Suggest returns context-aware completion candidates for the partial
// input line. The walk never fails; denied or unparsable branches
// contribute nothing.
func (m *Manager) Suggest(ctx context.Context, sender interface{}, line string) []Suggestion {
	cctx := newCommandContext(ctx, sender, m)
	cctx.suggesting = true
	input := NewInput(line)
	var out []Suggestion
	if m.hook == nil || m.hook(cctx, input) == nil {
		out = dedupeSuggestions(m.tree.suggest(cctx, input, m.tree.Root()))
	}
	if m.processor != nil {
		out = m.processor(cctx, out)
	}
	if len(out) == 0 && m.settings.ForceSuggestion {
		out = []Suggestion{{}}
	}
	return out
}

func senderTypeName(sender interface{}) string {
	if sender == nil {
		return "<nil>"
	}
	return reflect.TypeOf(sender).String()
}
