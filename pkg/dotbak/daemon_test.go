// pkg/dotbak/daemon_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: git binary on PATH, real filesystem (testutil.TestEnvironment)
// PURPOSE: Test the periodic sync loop and its shutdown

package dotbak

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/arthur-debert/dotbak/pkg/testutil"
	"github.com/arthur-debert/dotbak/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDaemon(t *testing.T) {
	env, layout := setup(t)
	rec := &stepRecorder{}

	_, err := Init(context.Background(), layout, Options{})
	require.NoError(t, err)

	d, err := Load(context.Background(), layout, Options{
		Reporter:  rec,
		Overrides: map[string]interface{}{"delay_between_sync": 1},
	})
	require.NoError(t, err)
	d.Config().AddInclude(".config/app")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.RunDaemon(ctx) }()

	// picked up by the next tick
	env.WriteHome(".config/app/settings.json", "{}")

	assert.Eventually(t, func() bool {
		info, err := os.Lstat(env.HomePath(".config/app/settings.json"))
		linked := err == nil && info.Mode()&os.ModeSymlink != 0
		return linked && rec.count(ui.MsgCommit) >= 2
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}

	testutil.AssertSymlinkTo(t,
		env.HomePath(".config/app/settings.json"),
		env.StoragePath(".config/app/settings.json"))
	assert.Contains(t, commitSubjects(t, env.StorageRoot), "Sync files")
}

func TestRunDaemon_StopsWhenCancelledUpFront(t *testing.T) {
	_, layout := setup(t)

	d, err := Init(context.Background(), layout, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, d.RunDaemon(ctx))
}
