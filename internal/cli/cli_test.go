package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/huectl/internal/cli"
	"github.com/dokzlo13/huectl/internal/config"
	"github.com/dokzlo13/huectl/internal/hue"
	"github.com/dokzlo13/huectl/internal/hue/huetest"
)

const (
	desk    = `{"name":"Desk","type":"Dimmable light","modelid":"LWB010","state":{"on":false,"bri":144,"alert":"none","reachable":true}}`
	deskOn  = `{"name":"Desk","type":"Dimmable light","modelid":"LWB010","state":{"on":true,"bri":144,"alert":"none","reachable":true}}`
	shelf   = `{"name":"Shelf","type":"Extended color light","state":{"on":false,"bri":50,"hue":100,"sat":100,"xy":[0.3,0.3],"ct":250,"alert":"none","colormode":"xy","reachable":true}}`
	kitchen = `{"name":"Kitchen","lights":["1","2"],"type":"Room","class":"Kitchen","state":{"all_on":false,"any_on":false},"action":{"on":false,"bri":1}}`
)

// isolate keeps the developer's ~/.huerc and HUE_* variables out of the test
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{
		"HUE_BRIDGE", "HUE_IP", "HUE_TOKEN", "HUE_USERNAME",
		"HUECTL_HUE_BRIDGE", "HUECTL_HUE_TOKEN", "HUECTL_OUTPUT", "HUECTL_LEDGER_PATH",
		"HUECTL_METRICS_PUSHGATEWAY", "HUECTL_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

// execute runs huectl against mock with bridge credentials supplied as flags
func execute(t *testing.T, mock *huetest.Transport, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := cli.New(
		cli.WithTransportFactory(func(*config.Config) (hue.Transport, error) { return mock, nil }),
		cli.WithOutput(&stdout, &stderr),
	)
	full := append([]string{"--bridge", "bridge.test", "--token", "secret"}, args...)
	err := app.Run(context.Background(), full)
	return stdout.String(), err
}

func decodeYAML(t *testing.T, out string) map[string]map[string]any {
	t.Helper()
	var views map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	return views
}

func TestLightList(t *testing.T) {
	isolate(t)
	mock := huetest.New().On("GET", "lights", `{"1":`+desk+`,"2":`+shelf+`}`)

	out, err := execute(t, mock, "light", "list")
	require.NoError(t, err)

	views := decodeYAML(t, out)
	require.Len(t, views, 2)
	assert.Equal(t, "Desk", views["1"]["name"])
	assert.Equal(t, "Shelf", views["2"]["name"])

	state, ok := views["2"]["state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "xy", state["colormode"])
	assert.Equal(t, 250, state["ct"])
}

func TestLightList_JSON(t *testing.T) {
	isolate(t)
	mock := huetest.New().On("GET", "lights", `{"1":`+desk+`}`)

	out, err := execute(t, mock, "light", "list", "-o", "json")
	require.NoError(t, err)

	var views map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	assert.Equal(t, "LWB010", views["1"]["modelid"])
}

func TestLightGet(t *testing.T) {
	isolate(t)
	mock := huetest.New().On("GET", "lights/2", shelf)

	out, err := execute(t, mock, "light", "get", "2")
	require.NoError(t, err)
	assert.Contains(t, decodeYAML(t, out), "2")

	_, err = execute(t, mock, "light", "get", "two")
	assert.ErrorContains(t, err, `invalid id "two"`)
}

func TestLightOn_FailFast(t *testing.T) {
	isolate(t)
	mock := huetest.New().
		On("GET", "lights/1", desk).
		OK("PUT", "lights/1/state").
		On("GET", "lights/1", deskOn).
		On("GET", "lights/2", shelf).
		Fail("PUT", "lights/2/state", errors.New("bridge busy")).
		On("GET", "lights/3", desk)

	out, err := execute(t, mock, "light", "on", "1", "2", "3")

	var transportErr *hue.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Empty(t, mock.CallsTo("GET", "lights/3"), "nothing after the failing light is attempted")

	// the light switched before the failure is still reported
	views := decodeYAML(t, out)
	require.Len(t, views, 1)
	assert.Contains(t, views, "1")
}

func TestLightOff_All(t *testing.T) {
	isolate(t)
	mock := huetest.New().
		On("GET", "lights", `{"2":`+shelf+`,"1":`+deskOn+`}`).
		OK("PUT", "lights/1/state").
		OK("PUT", "lights/2/state").
		On("GET", "lights/1", desk).
		On("GET", "lights/2", shelf)

	_, err := execute(t, mock, "light", "off")
	require.NoError(t, err)

	var order []string
	for _, c := range mock.Calls() {
		if c.Method == "PUT" {
			order = append(order, c.Path)
			assert.Contains(t, c.Body, `"on":false`)
		}
	}
	assert.Equal(t, []string{"lights/1/state", "lights/2/state"}, order)
}

func TestLightSet(t *testing.T) {
	tests := []struct {
		name  string
		light string
		args  []string
		want  string
	}{
		{
			name:  "white_lamp_drops_colour",
			light: desk,
			args:  []string{"--bri", "10", "--hue", "5000", "--ct", "300"},
			want:  `{"on":false,"bri":10,"alert":"none"}`,
		},
		{
			name:  "colour_lamp",
			light: shelf,
			args:  []string{"--on", "--xy", "0.5,0.4", "--transition", "0"},
			want:  `{"on":true,"bri":50,"hue":100,"sat":100,"xy":[0.5,0.4],"ct":250,"alert":"none","transitiontime":0}`,
		},
		{
			name:  "invalid_effect_ignored",
			light: desk,
			args:  []string{"--effect", "strobe", "--alert", "lselect"},
			want:  `{"on":false,"bri":144,"alert":"lselect"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			mock := huetest.New().
				On("GET", "lights/4", tt.light).
				OK("PUT", "lights/4/state")

			_, err := execute(t, mock, append([]string{"light", "set", "4"}, tt.args...)...)
			require.NoError(t, err)

			puts := mock.CallsTo("PUT", "lights/4/state")
			require.Len(t, puts, 1)
			assert.JSONEq(t, tt.want, puts[0].Body)
		})
	}
}

func TestLightSet_BadXY(t *testing.T) {
	isolate(t)
	mock := huetest.New().On("GET", "lights/4", shelf)

	_, err := execute(t, mock, "light", "set", "4", "--xy", "0.5")
	assert.ErrorContains(t, err, "invalid xy")
	assert.Empty(t, mock.CallsTo("PUT", "lights/4/state"))
}

func TestLightRenameAndDelete(t *testing.T) {
	isolate(t)
	mock := huetest.New().
		On("GET", "lights/1", desk).
		OK("PUT", "lights/1").
		OK("DELETE", "lights/1")

	_, err := execute(t, mock, "light", "rename", "1", "Reading lamp")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Reading lamp"}`, mock.CallsTo("PUT", "lights/1")[0].Body)

	_, err = execute(t, mock, "light", "delete", "1")
	require.NoError(t, err)
	assert.Len(t, mock.CallsTo("DELETE", "lights/1"), 1)
}

func TestGroupCommands(t *testing.T) {
	isolate(t)
	mock := huetest.New().
		On("GET", "groups", `{"1":`+kitchen+`}`).
		On("POST", "groups", `[{"success":{"id":"7"}}]`).
		On("GET", "groups/7", kitchen).
		On("GET", "groups/1", kitchen).
		OK("PUT", "groups/1/action").
		OK("DELETE", "groups/7")

	out, err := execute(t, mock, "group", "list")
	require.NoError(t, err)
	views := decodeYAML(t, out)
	assert.Equal(t, "Kitchen", views["1"]["class"])

	out, err = execute(t, mock, "group", "create", "Den", "--lights", "1,2", "--type", "Room")
	require.NoError(t, err)
	assert.Contains(t, decodeYAML(t, out), "7")
	assert.JSONEq(t, `{"name":"Den","lights":["1","2"],"type":"Room"}`, mock.CallsTo("POST", "groups")[0].Body)

	_, err = execute(t, mock, "group", "on", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":true,"bri":1}`, mock.CallsTo("PUT", "groups/1/action")[0].Body)

	_, err = execute(t, mock, "group", "delete", "7")
	require.NoError(t, err)
}

func TestSceneOn_NotImplemented(t *testing.T) {
	isolate(t)
	mock := huetest.New().On("GET", "scenes/abc", `{"name":"Relax","type":"GroupScene","group":"1","lights":["1"]}`)

	_, err := execute(t, mock, "scene", "on", "abc")
	assert.ErrorIs(t, err, hue.ErrNotImplemented)
}

func TestSceneList(t *testing.T) {
	isolate(t)
	mock := huetest.New().On("GET", "scenes", `{"abc":{"name":"Relax","type":"GroupScene","group":"1","lights":["1"]}}`)

	out, err := execute(t, mock, "scene", "list")
	require.NoError(t, err)
	assert.Equal(t, "Relax", decodeYAML(t, out)["abc"]["name"])
}

func TestMissingBridge(t *testing.T) {
	isolate(t)
	app := cli.New(
		cli.WithTransportFactory(func(*config.Config) (hue.Transport, error) {
			t.Fatal("transport must not be built without a bridge")
			return nil, nil
		}),
		cli.WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
	)

	err := app.Run(context.Background(), []string{"light", "list"})
	assert.ErrorIs(t, err, config.ErrMissingBridge)
}

func TestRunScript(t *testing.T) {
	isolate(t)
	script := filepath.Join(t.TempDir(), "evening.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
		local hue = require("hue")
		local lamp = assert(hue.light(1))
		assert(lamp:on():set_bri(80):push())
	`), 0600))

	mock := huetest.New().
		On("GET", "lights/1", desk).
		OK("PUT", "lights/1/state")

	_, err := execute(t, mock, "run", script)
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":true,"bri":80,"alert":"none"}`, mock.CallsTo("PUT", "lights/1/state")[0].Body)
}

func TestHistory(t *testing.T) {
	isolate(t)

	_, err := execute(t, huetest.New(), "history")
	assert.ErrorIs(t, err, cli.ErrLedgerDisabled)

	t.Setenv("HUECTL_LEDGER_PATH", filepath.Join(t.TempDir(), "history.db"))

	mock := huetest.New().
		On("GET", "lights/1", desk).
		OK("PUT", "lights/1/state").
		Fail("PUT", "lights/2/state", errors.New("unreachable")).
		On("GET", "lights/2", desk)

	_, err = execute(t, mock, "light", "on", "1")
	require.NoError(t, err)
	_, err = execute(t, mock, "light", "on", "2")
	require.Error(t, err)

	out, err := execute(t, mock, "history", "-o", "json")
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "lights/2/state", entries[0]["path"])
	assert.Equal(t, "failed", entries[0]["outcome"])
	assert.Equal(t, "lights/1/state", entries[1]["path"])
	assert.Equal(t, "ok", entries[1]["outcome"])
}

func TestHistory_UnavailableLedgerOnlyFailsHistory(t *testing.T) {
	isolate(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	t.Setenv("HUECTL_LEDGER_PATH", filepath.Join(blocker, "history.db"))

	mock := huetest.New().On("GET", "lights", `{"1":`+desk+`}`)
	out, err := execute(t, mock, "light", "list")
	require.NoError(t, err)
	assert.Equal(t, "Desk", decodeYAML(t, out)["1"]["name"])

	_, err = execute(t, huetest.New(), "history")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrLedgerDisabled)
	assert.Contains(t, err.Error(), "open write history")
}
