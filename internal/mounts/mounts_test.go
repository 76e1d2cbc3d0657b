package mounts

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap(hostRoot string) Map {
	return Map{
		"merge":   {HostRoot: hostRoot, ServiceRoot: "/app/saves"},
		"convert": {HostRoot: hostRoot, ServiceRoot: "/saves"},
	}
}

func TestTranslate_ServiceToService(t *testing.T) {
	m := testMap("/srv/saves")
	got, err := m.Translate("/app/saves/modelA/merged_model", "merge", "convert")
	require.NoError(t, err)
	assert.Equal(t, "/saves/modelA/merged_model", got)
}

func TestTranslate_HostRoundTrip(t *testing.T) {
	host := t.TempDir()
	m := testMap(host)
	hostPath := filepath.Join(host, "modelA", "lora", "run1")

	svc, err := m.Translate(hostPath, Host, "merge")
	require.NoError(t, err)
	assert.Equal(t, "/app/saves/modelA/lora/run1", svc)

	back, err := m.Translate(svc, "merge", Host)
	require.NoError(t, err)
	assert.Equal(t, hostPath, back)
}

func TestTranslate_RootItself(t *testing.T) {
	m := testMap("/srv/saves")
	got, err := m.Translate("/app/saves", "merge", "convert")
	require.NoError(t, err)
	assert.Equal(t, "/saves", got)
}

func TestTranslate_Errors(t *testing.T) {
	m := testMap("/srv/saves")

	_, err := m.Translate("/other/place", "merge", "convert")
	assert.Error(t, err, "path outside source root")

	_, err = m.Translate("/app/savesX/a", "merge", "convert")
	assert.Error(t, err, "prefix match must respect path boundaries")

	_, err = m.Translate("/srv/elsewhere/a", Host, "merge")
	assert.Error(t, err, "host path outside host root")

	_, err = m.Translate("/app/saves/a", "merge", "serve")
	assert.Error(t, err, "unknown destination service")

	m["odd"] = Mount{HostRoot: "/mnt/other", ServiceRoot: "/data"}
	_, err = m.Translate("/app/saves/a", "merge", "odd")
	assert.Error(t, err, "different host roots")
}

func TestTranslate_SameLocationIsIdentity(t *testing.T) {
	m := testMap("/srv/saves")
	got, err := m.Translate("/anything", "merge", "merge")
	require.NoError(t, err)
	assert.Equal(t, "/anything", got)
}
