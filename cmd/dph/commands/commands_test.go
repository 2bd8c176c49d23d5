package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		build       func() *cobra.Command
		use         string
		aliases     []string
		subcommands []string
	}{
		{NewDataProductsCommand, "data-products", []string{"data-product", "dp"}, []string{"list", "get", "create"}},
		{NewDraftsCommand, "drafts", []string{"draft"}, []string{"list", "get", "create", "update", "delete", "publish"}},
		{NewReleasesCommand, "releases", []string{"release"}, []string{"list", "get", "update", "retire"}},
		{NewDocumentsCommand, "documents", []string{"document", "docs"}, []string{"get", "create", "delete", "complete"}},
		{NewInitializeCommand, "initialize", []string{"init"}, []string{"status", "run", "credentials", "rotate-keys"}},
		{NewConfigCommand, "config", nil, []string{"show", "set", "unset"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			t.Parallel()

			cmd := tt.build()
			assert.Equal(t, tt.use, cmd.Use)
			assert.Equal(t, tt.aliases, cmd.Aliases)
			assert.Len(t, cmd.Commands(), len(tt.subcommands))

			for _, name := range tt.subcommands {
				sub := findSubcommand(cmd, name)
				require.NotNil(t, sub, name)
				assert.NotNil(t, sub.RunE, name)
				assert.NotEmpty(t, sub.Short, name)
			}
		})
	}
}

func TestListCommandFlags(t *testing.T) {
	t.Parallel()

	for _, group := range []*cobra.Command{NewDataProductsCommand(), NewDraftsCommand(), NewReleasesCommand()} {
		list := findSubcommand(group, "list")
		require.NotNil(t, list)

		all := list.Flags().Lookup("all")
		require.NotNil(t, all, group.Name())
		assert.Equal(t, "false", all.DefValue)

		limit := list.Flags().Lookup("limit")
		require.NotNil(t, limit, group.Name())
		assert.Equal(t, "50", limit.DefValue)
	}

	releases := findSubcommand(NewReleasesCommand(), "list")
	assert.NotNil(t, releases.Flags().Lookup("all-products"))
	assert.NotNil(t, releases.Flags().Lookup("concurrency"))
	assert.NotNil(t, releases.Flags().Lookup("state"))
}

func TestDraftsGetCommand(t *testing.T) {
	t.Parallel()

	cmd := newDraftsGetCommand()
	assert.Equal(t, "get DATA_PRODUCT_ID DRAFT_ID", cmd.Use)
	assert.Error(t, cmd.Args(cmd, []string{"dp-1"}))
	assert.NoError(t, cmd.Args(cmd, []string{"dp-1", "draft-1"}))
}

func TestDocumentsGetCommand(t *testing.T) {
	t.Parallel()

	cmd := newDocumentsGetCommand()
	assert.Equal(t, "get DATA_PRODUCT_ID VERSION_ID CONTRACT_TERMS_ID DOCUMENT_ID", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("release"))
	assert.Error(t, cmd.Args(cmd, []string{"dp-1", "v-1", "ct-1"}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCommand("1.2.3", "abc123", "2025-01-01")
	assert.Equal(t, "version", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}
