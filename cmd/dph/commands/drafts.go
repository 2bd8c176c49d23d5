package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDraftsCommand creates the drafts command group
func NewDraftsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "drafts",
		Aliases: []string{"draft"},
		Short:   "Manage data product drafts",
		Long:    "List, create, change and publish the drafts of a data product",
	}

	cmd.AddCommand(newDraftsListCommand())
	cmd.AddCommand(newDraftsGetCommand())
	cmd.AddCommand(newDraftsCreateCommand())
	cmd.AddCommand(newDraftsUpdateCommand())
	cmd.AddCommand(newDraftsDeleteCommand())
	cmd.AddCommand(newDraftsPublishCommand())

	return cmd
}

func newDraftsListCommand() *cobra.Command {
	var (
		flags       listFlags
		containerID string
		version     string
	)

	cmd := &cobra.Command{
		Use:   "list DATA_PRODUCT_ID",
		Short: "List drafts",
		Long:  "List the drafts of a data product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := flags.validate()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			pager, err := dph.NewDraftsPager(dphClient.Drafts(), args[0], &dph.ListDraftsOptions{
				AssetContainerID: containerID,
				Version:          version,
				Limit:            flags.limit,
			})
			if err != nil {
				return err
			}

			drafts, more, err := collectPages(ctx, pager, flags.all)
			if err != nil {
				return fmt.Errorf("failed to list drafts: %w", err)
			}

			err = renderOutput(cmd.OutOrStdout(), drafts, renderVersionsTable)
			if err != nil {
				return err
			}

			printMoreHint(cmd.OutOrStdout(), more)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&containerID, "container-id", "", "filter by catalog")
	cmd.Flags().StringVar(&version, "version", "", "filter by version number")

	return cmd
}

// renderVersionsTable renders drafts or releases.
func renderVersionsTable(out io.Writer, versions []dph.DataProductVersionSummary) error {
	if len(versions) == 0 {
		_, _ = io.WriteString(out, "No versions found\n")

		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("ID", "Data Product", "Version", "State", "Name")

	for _, version := range versions {
		_ = table.Append(version.ID, version.DataProduct.ID, version.Version, version.State, truncate(version.Name))
	}

	return table.Render()
}

func renderVersionDetails(out io.Writer, version *dph.DataProductVersion) error {
	domain := ""
	if version.Domain != nil {
		domain = version.Domain.Name
	}

	return renderProperties(out, [][]string{
		{"ID", version.ID},
		{"Data Product", version.DataProduct.ID},
		{"Version", version.Version},
		{"State", version.State},
		{"Name", valueOrNA(version.Name)},
		{"Description", valueOrNA(truncate(version.Description))},
		{"Domain", valueOrNA(domain)},
		{"Tags", valueOrNA(strings.Join(version.Tags, ", "))},
		{"Catalog", version.Asset.Container.ID},
		{"Contract Terms", fmt.Sprintf("%d", len(version.ContractTerms))},
		{"Parts", fmt.Sprintf("%d", len(version.PartsOut))},
		{"Created", formatTime(version.CreatedAt)},
		{"Published", formatTime(version.PublishedAt)},
	})
}

func newDraftsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DATA_PRODUCT_ID DRAFT_ID",
		Short: "Get draft details",
		Long:  "Display a single draft of a data product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			draft, err := dphClient.Drafts().Get(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get draft: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), draft, renderVersionDetails)
		},
	}
}

func newDraftsCreateCommand() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "create DATA_PRODUCT_ID",
		Short: "Create a draft",
		Long:  "Start a new draft of an existing data product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prototype, err := flags.prototype()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			draft, err := dphClient.Drafts().Create(ctx, args[0], prototype)
			if err != nil {
				return fmt.Errorf("failed to create draft: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), draft, renderVersionDetails)
		},
	}

	flags.register(cmd)

	return cmd
}

func newDraftsUpdateCommand() *cobra.Command {
	var patchFile string

	cmd := &cobra.Command{
		Use:   "update DATA_PRODUCT_ID DRAFT_ID",
		Short: "Update a draft",
		Long:  "Apply a JSON Patch document to a draft",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := readPatch(patchFile)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			draft, err := dphClient.Drafts().Update(ctx, args[0], args[1], patch)
			if err != nil {
				return fmt.Errorf("failed to update draft: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), draft, renderVersionDetails)
		},
	}

	cmd.Flags().StringVar(&patchFile, "patch-file", "", "JSON or YAML file holding the patch operations")
	_ = cmd.MarkFlagRequired("patch-file")

	return cmd
}

func newDraftsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATA_PRODUCT_ID DRAFT_ID",
		Short: "Delete a draft",
		Long:  "Delete a draft that has not been published",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			err = dphClient.Drafts().Delete(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to delete draft: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft %s\n", args[1])

			return nil
		},
	}
}

func newDraftsPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish DATA_PRODUCT_ID DRAFT_ID",
		Short: "Publish a draft",
		Long:  "Publish a draft, turning it into the latest release",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			release, err := dphClient.Drafts().Publish(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to publish draft: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), release, renderVersionDetails)
		},
	}
}
