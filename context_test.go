package commodore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func testContext() *CommandContext {
	return newCommandContext(context.TODO(), nil, NewManager())
}

func TestCommandContext_StoreGet(t *testing.T) {
	c := testContext()
	c.Store("n", 42)
	v, ok := c.Get("n")
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestCommandContext_GetOrDefault(t *testing.T) {
	c := testContext()
	require.Equal(t, "fallback", c.GetOrDefault("x", "fallback"))
	c.Store("x", "stored")
	require.Equal(t, "stored", c.GetOrDefault("x", "fallback"))
}

func TestCommandContext_GetOrSupplyDefault(t *testing.T) {
	c := testContext()
	calls := 0
	supply := func() interface{} { calls++; return "supplied" }

	require.Equal(t, "supplied", c.GetOrSupplyDefault("x", supply))
	require.Equal(t, "supplied", c.GetOrSupplyDefault("x", supply))
	require.Equal(t, 1, calls)
}

func TestCommandContext_Remove(t *testing.T) {
	c := testContext()
	c.Store("x", 1)
	v, ok := c.Remove("x")
	require.True(t, ok)
	require.Equal(t, 1, v)
	_, ok = c.Get("x")
	require.False(t, ok)
}

func TestCommandContext_TypedKey(t *testing.T) {
	c := testContext()
	key := NewKey[int]("count")
	StoreKey(c, key, 7)

	v, ok := GetKey(c, key)
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestCommandContext_TypedKey_WrongType(t *testing.T) {
	c := testContext()
	c.Store("count", "not an int")
	_, ok := GetKey(c, NewKey[int]("count"))
	require.False(t, ok)
}

func TestCommandContext_TypedGetters(t *testing.T) {
	c := testContext()
	c.Store("i", int32(3))
	c.Store("s", "hello")
	c.Store("b", true)
	c.Store("f", 1.5)

	require.Equal(t, 3, c.Int("i"))
	require.Equal(t, "hello", c.String("s"))
	require.True(t, c.Bool("b"))
	require.Equal(t, 1.5, c.Float64("f"))

	require.Equal(t, 0, c.Int("missing"))
	require.Equal(t, "", c.String("missing"))
}

func TestCommandContext_CarriesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newCommandContext(ctx, nil, NewManager())
	require.NoError(t, c.Err())
	cancel()
	require.Error(t, c.Err())
}
