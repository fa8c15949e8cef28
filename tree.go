package commodore

import (
	"errors"
	"fmt"
	"sync"
)

// CommandTree is the prefix-shared trie of command components. Mutations
// run under a single exclusive lock that also covers verification; readers
// observe a stable structure once registration has completed.
type CommandTree struct {
	mu      sync.Mutex
	root    *Node
	manager *Manager
}

func newTree(m *Manager) *CommandTree {
	t := &CommandTree{root: &Node{}, manager: m}
	t.root.metaSet = true
	return t
}

// Root returns the root node.
func (t *CommandTree) Root() *Node { return t.root }

var (
	// ErrAmbiguousNode occurs when two siblings could accept the same token.
	ErrAmbiguousNode = errors.New("commodore: ambiguous node")
	// ErrNoCommandInLeaf occurs when a leaf has no owning command.
	ErrNoCommandInLeaf = errors.New("commodore: leaf without owning command")
	// ErrDuplicateCommand occurs when a command terminates at a node already
	// owned by a different command.
	ErrDuplicateCommand = errors.New("commodore: duplicate command")
	// ErrRootChildNotLiteral occurs when a command does not start with a
	// literal component.
	ErrRootChildNotLiteral = errors.New("commodore: root components must be literal")
)

// AmbiguousNodeError is raised at insertion or verification when two
// siblings could both accept the same next token.
type AmbiguousNodeError struct {
	Parent    *Node
	Offending *Component
}

func (e *AmbiguousNodeError) Unwrap() error { return ErrAmbiguousNode }
func (e *AmbiguousNodeError) Error() string {
	return fmt.Sprintf("%v: component %q", ErrAmbiguousNode, e.Offending.Name())
}

// NoCommandInLeafError is raised at verification when a leaf node has no
// owning command.
type NoCommandInLeafError struct {
	Component *Component
}

func (e *NoCommandInLeafError) Unwrap() error { return ErrNoCommandInLeaf }
func (e *NoCommandInLeafError) Error() string {
	return fmt.Sprintf("%v: component %q", ErrNoCommandInLeaf, e.Component.Name())
}

// DuplicateCommandError is raised at insertion when the terminal node is
// already owned by another command.
type DuplicateCommandError struct {
	Node     *Node
	Existing *Command
	New      *Command
}

func (e *DuplicateCommandError) Unwrap() error { return ErrDuplicateCommand }
func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("%v: %q", ErrDuplicateCommand, e.New.String())
}

// Insert merges cmd's component chain into the tree, runs verification and
// requirement propagation, and advertises the command to the registration
// handler. Insertion is transactional: on any error the tree is restored to
// its previous shape.
func (t *CommandTree) Insert(cmd *Command) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		createdAt    []*Node // parents of created children, aligned with created
		created      []*Node
		addedAliases []aliasAddition
		ownedNode    *Node
	)
	rollback := func() {
		if ownedNode != nil {
			ownedNode.command = nil
		}
		for i := len(created) - 1; i >= 0; i-- {
			createdAt[i].removeChild(created[i])
		}
		for _, a := range addedAliases {
			a.parser.removeAlias(a.alias)
		}
	}

	comps := cmd.Components()
	if len(comps) == 0 || comps[0].Kind() != LiteralComponent {
		return ErrRootChildNotLiteral
	}

	flagIdx := t.flagInsertionIndex(cmd)
	var (
		flagNode    *Node
		flagAttach  []int // component indices the flag node is attached after
		chain       = make([]*Node, 0, len(comps))
		node        = t.root
	)
	for i, comp := range comps {
		child := node.childEqual(comp)
		if child != nil {
			if comp.Kind() == LiteralComponent && child.Component() != comp {
				addedAliases = append(addedAliases, mergeAliases(child.Component(), comp)...)
			}
		} else {
			child = &Node{component: comp}
			node.addChild(child)
			createdAt = append(createdAt, node)
			created = append(created, child)
		}
		node = child
		chain = append(chain, node)

		if cmd.FlagComponent() != nil && i >= flagIdx {
			if existing := node.childEqual(cmd.FlagComponent()); existing != nil {
				flagNode = existing
			} else {
				if flagNode == nil {
					flagNode = &Node{component: cmd.FlagComponent(), command: cmd}
				}
				node.attachShared(flagNode)
				createdAt = append(createdAt, node)
				created = append(created, flagNode)
			}
			flagAttach = append(flagAttach, i)
		}
	}

	if node.command != nil && node.command != cmd {
		existing := node.command
		rollback()
		return &DuplicateCommandError{Node: node, Existing: existing, New: cmd}
	}
	if node.command == nil {
		node.command = cmd
		ownedNode = node
	}

	// Wire the flag node's continuations so flags parsed mid-input resume
	// at the following positional component.
	for _, i := range flagAttach {
		if i+1 < len(chain) && flagNode.childEqual(chain[i+1].Component()) == nil {
			flagNode.attachShared(chain[i+1])
		}
	}

	if err := t.verify(); err != nil {
		rollback()
		// Restore the metadata of the pre-insert shape.
		if verr := t.verify(); verr != nil {
			return errors.Join(err, verr)
		}
		return err
	}

	if h := t.manager.regHandler; h != nil {
		_ = h.Register(cmd)
	}
	return nil
}

type aliasAddition struct {
	parser *LiteralParser
	alias  string
}

// mergeAliases extends the literal parser of existing with the aliases of
// incoming and reports the additions.
func mergeAliases(existing, incoming *Component) []aliasAddition {
	dst, ok := existing.Parser().(*LiteralParser)
	if !ok {
		return nil
	}
	src, ok := incoming.Parser().(*LiteralParser)
	if !ok {
		return nil
	}
	var added []aliasAddition
	for _, a := range src.Aliases() {
		if !dst.Accepts(a) {
			dst.InsertAlias(a)
			added = append(added, aliasAddition{parser: dst, alias: a})
		}
	}
	return added
}

// attachShared appends child without reassigning an already-set parent;
// flag nodes and their continuations are reachable from several parents.
func (n *Node) attachShared(child *Node) {
	if child.parent == nil {
		n.addChild(child)
		return
	}
	parent := child.parent
	n.addChild(child)
	child.parent = parent
}

// flagInsertionIndex computes the component index after which cmd's flag
// component attaches as a child. Default is the last index; with liberal
// flag parsing it is the index of the last literal component.
func (t *CommandTree) flagInsertionIndex(cmd *Command) int {
	comps := cmd.Components()
	if !t.manager.settings.LiberalFlagParsing {
		return len(comps) - 1
	}
	last := -1
	for i, c := range comps {
		if c.Kind() == LiteralComponent {
			last = i
		}
	}
	if last == -1 {
		return len(comps) - 1
	}
	return last
}

// verify traverses the whole tree checking the structural invariants and
// recomputing the permission and sender-type unions on every node.
func (t *CommandTree) verify() error {
	for _, c := range t.root.children {
		if c.Component().Kind() != LiteralComponent {
			return fmt.Errorf("%w: %q", ErrRootChildNotLiteral, c.Component().Name())
		}
	}

	visited := map[*Node]struct{}{}
	var structural func(n *Node) error
	structural = func(n *Node) error {
		if _, ok := visited[n]; ok {
			return nil
		}
		visited[n] = struct{}{}

		var variables, flags int
		for _, c := range n.children {
			switch c.Component().Kind() {
			case VariableComponent:
				variables++
				if variables > 1 {
					return &AmbiguousNodeError{Parent: n, Offending: c.Component()}
				}
			case FlagComponent:
				flags++
				if flags > 1 {
					return &AmbiguousNodeError{Parent: n, Offending: c.Component()}
				}
			}
		}
		literals := n.literalChildren()
		for i, a := range literals {
			set := a.aliasSet()
			for _, b := range literals[i+1:] {
				for alias := range b.aliasSet() {
					if _, ok := set[alias]; ok {
						return &AmbiguousNodeError{Parent: n, Offending: b.Component()}
					}
				}
			}
		}
		for _, c := range n.children {
			if c.IsLeaf() && c.command == nil {
				return &NoCommandInLeafError{Component: c.Component()}
			}
			if err := structural(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := structural(t.root); err != nil {
		return err
	}

	// Requirement propagation: annotate every node with the union of the
	// permissions and sender types of all commands reachable through it.
	for n := range visited {
		n.clearMeta()
	}
	for n := range visited {
		if n.command == nil {
			continue
		}
		perm := n.command.Permission()
		st := n.command.SenderType()
		for up := n; up != nil; up = up.parent {
			if up.permSet {
				up.permission = unionPermission(up.permission, perm)
			} else {
				up.permission = perm
				up.permSet = true
			}
			up.addSenderType(st)
		}
	}
	if t.manager.settings.EnforceIntermediaryPermissions {
		for n := range visited {
			if n.command != nil {
				n.permission = n.command.Permission()
			}
		}
	}
	for n := range visited {
		n.metaSet = true
	}
	t.root.metaSet = true
	return nil
}

// ErrUnknownRootCommand occurs when deleting a root command that does not exist.
var ErrUnknownRootCommand = errors.New("commodore: unknown root command")

// DeleteRecursively removes the root command named name together with its
// whole subtree, notifies the registration handler and returns the commands
// that were owned by the removed subtree. The host is responsible for
// quiescence of in-flight walks.
func (t *CommandTree) DeleteRecursively(name string) ([]*Command, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target := t.root.matchLiteral(name)
	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRootCommand, name)
	}
	var (
		commands []*Command
		seenCmd  = map[*Command]struct{}{}
		seen     = map[*Node]struct{}{}
	)
	var collect func(n *Node)
	collect = func(n *Node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if n.command != nil {
			if _, ok := seenCmd[n.command]; !ok {
				seenCmd[n.command] = struct{}{}
				commands = append(commands, n.command)
			}
		}
		for _, c := range n.children {
			collect(c)
		}
	}
	collect(target)
	t.root.removeChild(target)

	if err := t.verify(); err != nil {
		// Removal of a whole root subtree cannot introduce ambiguity.
		return nil, err
	}
	if h := t.manager.regHandler; h != nil {
		_ = h.UnregisterRoot(target.Component())
	}
	return commands, nil
}
