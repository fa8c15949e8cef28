package commodore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	registered   []*Command
	unregistered []*Component
}

func (h *recordingHandler) Register(cmd *Command) error {
	h.registered = append(h.registered, cmd)
	return nil
}

func (h *recordingHandler) UnregisterRoot(c *Component) error {
	h.unregistered = append(h.unregistered, c)
	return nil
}

func TestManager_RegistrationHandler(t *testing.T) {
	rec := &recordingHandler{}
	m := NewManager(WithRegistrationHandler(rec))

	cmd := mustRegister(t, m, NewBuilder("hello").Handler(nop))
	require.Equal(t, []*Command{cmd}, rec.registered)

	require.NoError(t, m.DeleteRootCommand("hello"))
	require.Len(t, rec.unregistered, 1)
	require.Equal(t, "hello", rec.unregistered[0].Name())
}

func TestManager_RegistrationHandler_NotCalledOnFailure(t *testing.T) {
	rec := &recordingHandler{}
	m := NewManager(WithRegistrationHandler(rec))
	mustRegister(t, m, NewBuilder("a").Required("x", Int).Handler(nop))

	_, err := m.Register(NewBuilder("a").Required("y", Word).Handler(nop))
	require.Error(t, err)
	require.Len(t, rec.registered, 1)
}

func TestManager_Commands_DeclarationOrder(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("zeta").Handler(nop))
	mustRegister(t, m, NewBuilder("alpha").Handler(nop))
	mustRegister(t, m, NewBuilder("mid").Literal("way").Handler(nop))

	var names []string
	for _, c := range m.Commands() {
		names = append(names, c.String())
	}
	require.Equal(t, []string{"zeta", "alpha", "mid way"}, names)
}

func TestManager_RootComponents(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("one").Handler(nop))
	mustRegister(t, m, NewBuilder("two").Handler(nop))

	comps := m.RootComponents()
	require.Len(t, comps, 2)
	require.Equal(t, "one", comps[0].Name())
	require.Equal(t, "two", comps[1].Name())
}

func TestManager_PreHook_RejectsParse(t *testing.T) {
	rejected := errors.New("rate limited")
	m := NewManager(WithPreHook(func(*CommandContext, *CommandInput) error { return rejected }))
	mustRegister(t, m, NewBuilder("x").Handler(nop))

	require.ErrorIs(t, m.Execute(context.TODO(), nil, "x"), rejected)
	require.Empty(t, m.Suggest(context.TODO(), nil, "x"))
}

func TestManager_PreHook_SeesInput(t *testing.T) {
	var seen string
	m := NewManager(WithPreHook(func(_ *CommandContext, in *CommandInput) error {
		seen = in.PeekString()
		return nil
	}))
	mustRegister(t, m, NewBuilder("x").Handler(nop))

	require.NoError(t, m.Execute(context.TODO(), nil, "x"))
	require.Equal(t, "x", seen)
}

func TestManager_Execute_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager()
	mustRegister(t, m, NewBuilder("x").HandlerFunc(func(*CommandContext) error { return boom }))

	require.ErrorIs(t, m.Execute(context.TODO(), nil, "x"), boom)
}

func TestManager_Execute_HandlerContext(t *testing.T) {
	type senderT struct{ name string }
	sender := &senderT{name: "alice"}
	m := NewManager()

	var got interface{}
	mustRegister(t, m, NewBuilder("whoami").HandlerFunc(func(c *CommandContext) error {
		got = c.Sender()
		return nil
	}))

	require.NoError(t, m.Execute(context.TODO(), sender, "whoami"))
	require.Same(t, sender, got)
}

func TestManager_Parse_PopulatesRecords(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("give").Required("amount", Int).Handler(nop))

	_, cctx, err := m.Parse(context.TODO(), nil, "give 7")
	require.NoError(t, err)

	records := cctx.Records()
	require.Len(t, records, 2)
	require.Equal(t, "give", records[0].Text)
	require.True(t, records[0].Success)
	require.Equal(t, "7", records[1].Text)
	require.True(t, records[1].Success)
	require.Equal(t, []*Component{records[0].Component, records[1].Component}, cctx.ParsedComponents())
}

func TestBuilder_Validation(t *testing.T) {
	_, err := NewBuilder("x").Build()
	require.ErrorIs(t, err, ErrNoHandler)

	_, err = NewBuilder("bad name").Handler(nop).Build()
	require.ErrorIs(t, err, ErrInvalidComponentName)

	_, err = NewBuilder("x").
		Optional("a", Int).
		Required("b", Int).
		Handler(nop).
		Build()
	require.ErrorIs(t, err, ErrRequiredAfterOptional)
}

func TestBuilder_RequiredPrefixAllowed(t *testing.T) {
	_, err := NewBuilder("x").
		Required("a", Int).
		Optional("b", Int).
		Optional("c", Int).
		Handler(nop).
		Build()
	require.NoError(t, err)
}
