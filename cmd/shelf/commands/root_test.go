package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	res := runCLI(t)
	assert.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "shelves")
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	res := runCLI(t, "--unknown-flag", "value")
	assert.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown flag")
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-05-01")
	assert.Equal(t, "1.2.3 (commit: abc123, built: 2024-05-01)", rootCmd.Version)
}
