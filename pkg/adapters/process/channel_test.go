package process_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/narrative/pkg/adapters/process"
	"github.com/aretw0/narrative/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCat(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("cat is not available on windows")
	}
	path, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not found in PATH")
	}
	return path
}

func TestSpawn_EchoHost(t *testing.T) {
	cat := requireCat(t)

	ch, err := process.Spawn(context.Background(), process.HostConfig{Name: "echo", Command: cat})
	require.NoError(t, err)

	var mu sync.Mutex
	var got []protocol.Message
	ch.Listen(func(msg protocol.Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
	})

	require.NoError(t, ch.Post(context.Background(), protocol.Subscribe("ChangesSavedEvent")))
	require.NoError(t, ch.Post(context.Background(), protocol.UpdateStore(map[string]any{"n": 1})))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, protocol.TypeSubscribe, got[0].Type)
	assert.Equal(t, protocol.TypeUpdateStore, got[1].Type)
	mu.Unlock()

	require.NoError(t, ch.Close())
	select {
	case <-ch.Exited():
	default:
		t.Fatal("host still running after Close")
	}
}

func TestSpawn_MissingCommand(t *testing.T) {
	_, err := process.Spawn(context.Background(), process.HostConfig{})
	assert.Error(t, err)

	_, err = process.Spawn(context.Background(), process.HostConfig{Command: "definitely-not-a-real-binary-xyz"})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(dir, "hosts.yaml")
		content := `
hosts:
  - name: local
    command: narrative
    args: ["host"]
    env:
      NARRATIVE_LOG: debug
  - name: incomplete
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		hosts, err := process.LoadConfig(path)
		require.NoError(t, err)
		require.Len(t, hosts, 1)
		assert.Equal(t, []string{"host"}, hosts["local"].Args)
		assert.Equal(t, "debug", hosts["local"].Environment["NARRATIVE_LOG"])
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "hosts.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"hosts":[{"name":"j","command":"cat"}]}`), 0o644))

		hosts, err := process.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "cat", hosts["j"].Command)
	})

	t.Run("Missing file", func(t *testing.T) {
		hosts, err := process.LoadConfig(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, hosts)
	})
}
