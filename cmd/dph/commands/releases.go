package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/spf13/cobra"
)

// NewReleasesCommand creates the releases command group
func NewReleasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "releases",
		Aliases: []string{"release"},
		Short:   "Manage data product releases",
		Long:    "List, inspect, change and retire published releases",
	}

	cmd.AddCommand(newReleasesListCommand())
	cmd.AddCommand(newReleasesGetCommand())
	cmd.AddCommand(newReleasesUpdateCommand())
	cmd.AddCommand(newReleasesRetireCommand())

	return cmd
}

// releaseListFlags are the flags of releases list.
type releaseListFlags struct {
	listFlags

	allProducts bool
	concurrency int
	containerID string
	states      []string
	version     string
}

func (f *releaseListFlags) options() *dph.ListReleasesOptions {
	return &dph.ListReleasesOptions{
		AssetContainerID: f.containerID,
		States:           f.states,
		Version:          f.version,
		Limit:            f.limit,
	}
}

func newReleasesListCommand() *cobra.Command {
	var flags releaseListFlags

	cmd := &cobra.Command{
		Use:   "list [DATA_PRODUCT_ID]",
		Short: "List releases",
		Long: `List the releases of a data product.

With --all-products the releases of every data product are listed. The
data products are read first, then their releases are fetched in parallel.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := flags.validate()
			if err != nil {
				return err
			}

			switch {
			case flags.allProducts && len(args) > 0:
				return constants.ErrAllProductsScope
			case !flags.allProducts && len(args) == 0:
				return constants.ErrDataProductID
			}

			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			if flags.allProducts {
				return runReleasesListAllProducts(ctx, cmd, dphClient, &flags)
			}

			pager, err := dph.NewReleasesPager(dphClient.Releases(), args[0], flags.options())
			if err != nil {
				return err
			}

			releases, more, err := collectPages(ctx, pager, flags.all)
			if err != nil {
				return fmt.Errorf("failed to list releases: %w", err)
			}

			err = renderOutput(cmd.OutOrStdout(), releases, renderVersionsTable)
			if err != nil {
				return err
			}

			printMoreHint(cmd.OutOrStdout(), more)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.allProducts, "all-products", false, "list the releases of every data product")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", constants.DefaultConcurrencyLimit, "data products listed in parallel with --all-products")
	cmd.Flags().StringVar(&flags.containerID, "container-id", "", "filter by catalog")
	cmd.Flags().StringSliceVar(&flags.states, "state", nil, "filter by state (available, retired)")
	cmd.Flags().StringVar(&flags.version, "version", "", "filter by version number")

	return cmd
}

// runReleasesListAllProducts drains the releases of every data product.
// Releases of the products that could be read are printed even when others fail.
func runReleasesListAllProducts(ctx context.Context, cmd *cobra.Command, dphClient dph.Client, flags *releaseListFlags) error {
	productPager, err := dph.NewDataProductsPager(dphClient.DataProducts(), &dph.ListDataProductsOptions{Limit: flags.limit})
	if err != nil {
		return err
	}

	products, err := productPager.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to list data products: %w", err)
	}

	keys := make([]string, 0, len(products))
	for _, product := range products {
		keys = append(keys, product.ID)
	}

	results := dph.DrainPagers(ctx, dph.NewBatchExecutor(flags.concurrency), keys,
		func(dataProductID string) (*dph.Pager[dph.DataProductVersionSummary], error) {
			return dph.NewReleasesPager(dphClient.Releases(), dataProductID, flags.options())
		})

	var (
		releases []dph.DataProductVersionSummary
		failures []error
	)

	for _, result := range results {
		if result.Error != nil {
			failures = append(failures, fmt.Errorf("data product %s: %w", result.Key, result.Error))

			continue
		}

		releases = append(releases, result.Items...)
	}

	err = renderOutput(cmd.OutOrStdout(), releases, renderVersionsTable)
	if err != nil {
		return err
	}

	if len(failures) > 0 {
		return fmt.Errorf("failed to list releases: %w", errors.Join(failures...))
	}

	return nil
}

func newReleasesGetCommand() *cobra.Command {
	var checkCallerApproval bool

	cmd := &cobra.Command{
		Use:   "get DATA_PRODUCT_ID RELEASE_ID",
		Short: "Get release details",
		Long:  "Display a single release of a data product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			release, err := dphClient.Releases().Get(ctx, args[0], args[1], &dph.GetReleaseOptions{
				CheckCallerApproval: checkCallerApproval,
			})
			if err != nil {
				return fmt.Errorf("failed to get release: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), release, renderVersionDetails)
		},
	}

	cmd.Flags().BoolVar(&checkCallerApproval, "check-caller-approval", false, "report whether the caller may consume the release")

	return cmd
}

func newReleasesUpdateCommand() *cobra.Command {
	var patchFile string

	cmd := &cobra.Command{
		Use:   "update DATA_PRODUCT_ID RELEASE_ID",
		Short: "Update a release",
		Long:  "Apply a JSON Patch document to a release",
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

			release, err := dphClient.Releases().Update(ctx, args[0], args[1], patch)
			if err != nil {
				return fmt.Errorf("failed to update release: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), release, renderVersionDetails)
		},
	}

	cmd.Flags().StringVar(&patchFile, "patch-file", "", "JSON or YAML file holding the patch operations")
	_ = cmd.MarkFlagRequired("patch-file")

	return cmd
}

func newReleasesRetireCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retire DATA_PRODUCT_ID RELEASE_ID",
		Short: "Retire a release",
		Long:  "Retire a release so it can no longer be requested",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			release, err := dphClient.Releases().Retire(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to retire release: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), release, renderVersionDetails)
		},
	}
}
