package main

import (
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/models"
)

type commandCalls struct {
	scans   int
	updates int
}

func testCommand(t *testing.T) (*commandCalls, func(args ...string) error) {
	t.Helper()
	t.Setenv("EVESCAN_DATA_DIR", t.TempDir())

	calls := &commandCalls{}
	run := func(args ...string) error {
		cmd := newRootCommand(
			func(ctx context.Context, cfg config.Config) (*models.Report, error) {
				calls.scans++
				return &models.Report{}, nil
			},
			func(ctx context.Context, cfg config.Config) error {
				calls.updates++
				return nil
			},
		)
		cmd.SetArgs(args)
		return cmd.ExecuteContext(context.Background())
	}
	return calls, run
}

func TestDefaultInvocationRunsScanOnly(t *testing.T) {
	calls, run := testCommand(t)

	require.NoError(t, run())

	assert.Equal(t, 1, calls.scans)
	assert.Equal(t, 0, calls.updates)
}

func TestUpdateUniverseSkipsScan(t *testing.T) {
	calls, run := testCommand(t)

	require.NoError(t, run("--update-universe"))

	assert.Equal(t, 0, calls.scans, "universe refresh must not trigger a scan")
	assert.Equal(t, 1, calls.updates)
}

func TestOnlyUpdateUniverseFlagIsExposed(t *testing.T) {
	cmd := newRootCommand(nil, nil)

	names := []string{}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	assert.Equal(t, []string{"update-universe"}, names)
}
