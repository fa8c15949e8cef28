package commodore

import (
	"context"
)

// CommandContext carries the state of one in-flight parse or suggest
// request: the sender, the typed value store and the per-component parsing
// records. One context belongs to one request and must not be shared across
// concurrent walks.
type CommandContext struct {
	context.Context

	sender  interface{}
	manager *Manager

	store   map[string]interface{}
	records []*ParsingRecord
	flags   *FlagResult

	current    *Component
	suggesting bool
}

// ParsingRecord captures the outcome of parsing a single component: the
// cursor range it covered, whether it succeeded and the captured text.
type ParsingRecord struct {
	Component *Component
	Start     int
	End       int
	Success   bool
	Text      string
}

func newCommandContext(ctx context.Context, sender interface{}, m *Manager) *CommandContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &CommandContext{
		Context: ctx,
		sender:  sender,
		manager: m,
		store:   map[string]interface{}{},
	}
}

// Sender returns the sender this request runs for.
func (c *CommandContext) Sender() interface{} { return c.sender }

// Manager returns the owning manager.
func (c *CommandContext) Manager() *Manager { return c.manager }

// Store stores a value under key.
func (c *CommandContext) Store(key string, value interface{}) { c.store[key] = value }

// Get returns the value stored under key.
func (c *CommandContext) Get(key string) (interface{}, bool) {
	v, ok := c.store[key]
	return v, ok
}

// GetOrDefault returns the value stored under key or def if absent.
func (c *CommandContext) GetOrDefault(key string, def interface{}) interface{} {
	if v, ok := c.store[key]; ok {
		return v
	}
	return def
}

// GetOrSupplyDefault returns the value stored under key or stores and
// returns the value supplied by supply.
func (c *CommandContext) GetOrSupplyDefault(key string, supply func() interface{}) interface{} {
	if v, ok := c.store[key]; ok {
		return v
	}
	v := supply()
	c.store[key] = v
	return v
}

// Optional returns the value stored under key, if any.
func (c *CommandContext) Optional(key string) (interface{}, bool) { return c.Get(key) }

// Remove removes the value stored under key and returns it.
func (c *CommandContext) Remove(key string) (interface{}, bool) {
	v, ok := c.store[key]
	delete(c.store, key)
	return v, ok
}

// Key is a typed identifier for values in the context store.
// The core never introspects the value type; retrieval asserts it.
type Key[T any] struct{ name string }

// NewKey returns a new typed key with the given name.
func NewKey[T any](name string) Key[T] { return Key[T]{name: name} }

// Name returns the name of the key.
func (k Key[T]) Name() string { return k.name }

// StoreKey stores a value under a typed key.
func StoreKey[T any](c *CommandContext, key Key[T], value T) { c.store[key.name] = value }

// GetKey returns the value stored under a typed key. The second return value
// is false if the key is absent or holds a value of a different type.
func GetKey[T any](c *CommandContext, key Key[T]) (T, bool) {
	v, ok := c.store[key.name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// CurrentComponent returns the component currently being parsed or
// suggested for, if any. Suggestion providers use this to inspect the
// component they serve.
func (c *CommandContext) CurrentComponent() *Component { return c.current }

func (c *CommandContext) setCurrent(comp *Component) { c.current = comp }

// IsSuggestions indicates whether this context serves a suggestion walk
// rather than a parse walk.
func (c *CommandContext) IsSuggestions() bool { return c.suggesting }

// Records returns the parsing records accumulated so far, in walk order.
func (c *CommandContext) Records() []*ParsingRecord { return c.records }

func (c *CommandContext) addRecord(r *ParsingRecord) { c.records = append(c.records, r) }

// ParsedComponents returns the components parsed successfully so far.
func (c *CommandContext) ParsedComponents() []*Component {
	a := make([]*Component, 0, len(c.records))
	for _, r := range c.records {
		if r.Success {
			a = append(a, r.Component)
		}
	}
	return a
}

// Flags returns the flag values parsed for this request.
func (c *CommandContext) Flags() *FlagResult {
	if c.flags == nil {
		c.flags = newFlagResult()
	}
	return c.flags
}

// Int returns the parsed int argument stored under name.
// It returns the zero-value if not found.
func (c *CommandContext) Int(name string) int {
	switch v := c.store[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

// Int64 returns the parsed int64 argument stored under name.
// It returns the zero-value if not found.
func (c *CommandContext) Int64(name string) int64 {
	v, _ := c.store[name].(int64)
	return v
}

// Float64 returns the parsed float64 argument stored under name.
// It returns the zero-value if not found.
func (c *CommandContext) Float64(name string) float64 {
	v, _ := c.store[name].(float64)
	return v
}

// Bool returns the parsed bool argument stored under name.
// It returns the zero-value if not found.
func (c *CommandContext) Bool(name string) bool {
	v, _ := c.store[name].(bool)
	return v
}

// String returns the parsed string argument stored under name.
// It returns the zero-value if not found.
func (c *CommandContext) String(name string) string {
	v, _ := c.store[name].(string)
	return v
}
