package hue_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huectl/internal/hue"
	"github.com/dokzlo13/huectl/internal/hue/huetest"
)

func groupJSON(name string, anyOn bool) string {
	return fmt.Sprintf(`{
		"name": %q,
		"lights": ["1", "2"],
		"sensors": [],
		"type": "Room",
		"state": {"all_on": %t, "any_on": %t},
		"recycle": false,
		"class": "Kitchen",
		"action": {"on": %t, "bri": 144, "alert": "none"}
	}`, name, anyOn, anyOn, anyOn)
}

func TestGetGroup(t *testing.T) {
	mock := huetest.New().On("GET", "groups/1", groupJSON("Kitchen", false))

	group, err := hue.GetGroup(context.Background(), mock, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, group.ID())
	assert.Equal(t, "Kitchen", group.Name)
	assert.Equal(t, "Room", group.Type)
	assert.Equal(t, []string{"1", "2"}, group.Lights)
	assert.Equal(t, "Kitchen", group.Class)
	assert.False(t, group.Status.AnyOn)
	assert.False(t, group.Action.On())
}

func TestGetGroup_DecodeError(t *testing.T) {
	mock := huetest.New().On("GET", "groups/1", "not expected response")

	_, err := hue.GetGroup(context.Background(), mock, 1)
	var decodeErr *hue.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestListGroups_AttachesIdentifier(t *testing.T) {
	mock := huetest.New().On("GET", "groups", fmt.Sprintf(`{"5": %s}`, groupJSON("Living", true)))

	all, err := hue.ListGroups(context.Background(), mock)
	require.NoError(t, err)
	require.Contains(t, all, 5)
	assert.Equal(t, 5, all[5].ID())
	assert.True(t, all[5].Status.AllOn)
}

func TestListGroups_BadKeyFailsWholeCall(t *testing.T) {
	body := fmt.Sprintf(`{"1": %s, "abc": %s}`, groupJSON("Kitchen", false), groupJSON("Living", true))
	mock := huetest.New().On("GET", "groups", body)

	all, err := hue.ListGroups(context.Background(), mock)
	assert.Nil(t, all)

	var decodeErr *hue.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestPushAction(t *testing.T) {
	mock := huetest.New().
		On("GET", "groups/2", groupJSON("Office", false)).
		On("GET", "groups/2", groupJSON("Office", true)).
		OK("PUT", "groups/2/action")

	group, err := hue.GetGroup(context.Background(), mock, 2)
	require.NoError(t, err)

	group.Action.SetOn(true).SetTransitionTime(10)
	updated, err := group.PushAction(context.Background(), mock)
	require.NoError(t, err)

	assert.True(t, updated.Action.On())
	assert.True(t, updated.Status.AllOn)
	assert.Equal(t, 2, updated.ID())

	put := mock.CallsTo("PUT", "groups/2/action")
	require.Len(t, put, 1)
	assert.JSONEq(t, `{"on":true,"bri":144,"alert":"none","transitiontime":10}`, put[0].Body)
	assert.NotContains(t, put[0].Body, "all_on")
}

func TestUpdateGroup_SendsAttributesOnly(t *testing.T) {
	mock := huetest.New().
		On("GET", "groups/3", groupJSON("Old", false)).
		On("GET", "groups/3", groupJSON("New", false)).
		OK("PUT", "groups/3")

	group, err := hue.GetGroup(context.Background(), mock, 3)
	require.NoError(t, err)

	group.Name = "New"
	group.Lights = append(group.Lights, "3")
	updated, err := group.Update(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)

	put := mock.CallsTo("PUT", "groups/3")
	require.Len(t, put, 1)
	assert.JSONEq(t, `{"name":"New","lights":["1","2","3"],"class":"Kitchen"}`, put[0].Body)
}

func TestCreateGroup(t *testing.T) {
	mock := huetest.New().
		On("POST", "groups", `[{"success":{"id":"7"}}]`).
		On("GET", "groups/7", groupJSON("Bedroom", false))

	group, err := hue.CreateGroup(context.Background(), mock, "Bedroom", []int{1, 2}, "Room", "Bedroom")
	require.NoError(t, err)
	assert.Equal(t, 7, group.ID())

	post := mock.CallsTo("POST", "groups")
	require.Len(t, post, 1)
	assert.JSONEq(t, `{"name":"Bedroom","lights":["1","2"],"type":"Room","class":"Bedroom"}`, post[0].Body)
}

func TestCreateGroup_BridgeRejects(t *testing.T) {
	mock := huetest.New().
		On("POST", "groups", `[{"error":{"type":7,"address":"/groups/lights","description":"invalid value"}}]`)

	_, err := hue.CreateGroup(context.Background(), mock, "Bad", []int{99}, "", "")
	var transportErr *hue.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "invalid value")
	assert.Empty(t, mock.CallsTo("GET", "groups/99"))
}

func TestCreateGroup_MissingID(t *testing.T) {
	mock := huetest.New().On("POST", "groups", `[]`)

	_, err := hue.CreateGroup(context.Background(), mock, "X", nil, "", "")
	assert.ErrorIs(t, err, hue.ErrMissingField)
}

func TestDeleteGroup(t *testing.T) {
	mock := huetest.New().
		On("GET", "groups/4", groupJSON("Temp", false)).
		OK("DELETE", "groups/4")

	group, err := hue.GetGroup(context.Background(), mock, 4)
	require.NoError(t, err)
	require.NoError(t, group.Delete(context.Background(), mock))

	_, err = group.PushAction(context.Background(), mock)
	assert.ErrorIs(t, err, hue.ErrDeleted)

	mock.Fail("DELETE", "groups/9", errors.New("boom"))
	var transportErr *hue.TransportError
	assert.ErrorAs(t, hue.DeleteGroup(context.Background(), mock, 9), &transportErr)
}
