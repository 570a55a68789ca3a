package huetest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_QueuedThenSticky(t *testing.T) {
	ctx := context.Background()
	m := New().
		On(http.MethodGet, "lights", `first`).
		On(http.MethodGet, "lights", `second`)

	for _, want := range []string{"first", "second", "second"} {
		got, err := m.Get(ctx, "lights")
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
	assert.Len(t, m.CallsTo(http.MethodGet, "lights"), 3)
}

func TestTransport_Fail(t *testing.T) {
	boom := errors.New("boom")
	m := New().Fail(http.MethodDelete, "groups/1", boom)

	_, err := m.Delete(context.Background(), "groups/1")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, m.Calls(), 1)
}

func TestTransport_UnscriptedCallIsAnError(t *testing.T) {
	m := New().OK(http.MethodPut, "lights/1")

	_, err := m.Get(context.Background(), "lights/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unscripted call GET lights/1")
	assert.Empty(t, m.Calls())
}

func TestTransport_RecordsBodies(t *testing.T) {
	ctx := context.Background()
	m := New().OK(http.MethodPut, "lights/1/state")

	_, err := m.Put(ctx, "lights/1/state", []byte(`{"on":true}`))
	require.NoError(t, err)
	_, err = m.Put(ctx, "lights/1/state", []byte(`{"on":false}`))
	require.NoError(t, err)

	calls := m.CallsTo(http.MethodPut, "lights/1/state")
	require.Len(t, calls, 2)
	assert.Equal(t, `{"on":true}`, calls[0].Body)
	assert.Equal(t, `{"on":false}`, calls[1].Body)
	m.AssertCalled(t, http.MethodPut, "lights/1/state", `{"on":false}`)
	m.AssertExpectations(t)
}
