package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRankCmd_Flags(t *testing.T) {
	t.Parallel()

	cmd := newRankCmd()
	require.Equal(t, "rank <bucket>", cmd.Use)
	require.NotEmpty(t, cmd.Short)

	for _, name := range []string{"workers", "damping", "top", "output"} {
		require.NotNilf(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	require.Equal(t, "20", cmd.Flags().Lookup("workers").DefValue)
	require.Equal(t, "5", cmd.Flags().Lookup("top").DefValue)
}

func TestRankCommand_RequiresBucketArg(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"rank"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
}

func TestRankCommand_EmptyCorpusIsFatal(t *testing.T) {
	t.Setenv("WEBRANK_STORAGE_PROVIDER", "memory")
	t.Setenv("WEBRANK_LOGGING_DEVELOPMENT", "false")

	root := newRootCmd()
	root.SetArgs([]string{"rank", "empty-bucket"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "contains no pages")
}

func TestRankCommand_InvalidFlagValue(t *testing.T) {
	t.Setenv("WEBRANK_STORAGE_PROVIDER", "memory")

	root := newRootCmd()
	root.SetArgs([]string{"rank", "bucket", "--damping", "1.5"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "rank.damping")
}
