package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// ErrContainerIDRequired is returned when a new draft has no catalog.
var ErrContainerIDRequired = errors.New("--container-id is required unless --from-file is used")

// NewDataProductsCommand creates the data-products command group
func NewDataProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "data-products",
		Aliases: []string{"data-product", "dp"},
		Short:   "Manage data products",
		Long:    "List, inspect and create data products",
	}

	cmd.AddCommand(newDataProductsListCommand())
	cmd.AddCommand(newDataProductsGetCommand())
	cmd.AddCommand(newDataProductsCreateCommand())

	return cmd
}

func newDataProductsListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List data products",
		Long:  "List the data products visible to the caller",
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

			pager, err := dph.NewDataProductsPager(dphClient.DataProducts(), &dph.ListDataProductsOptions{Limit: flags.limit})
			if err != nil {
				return err
			}

			products, more, err := collectPages(ctx, pager, flags.all)
			if err != nil {
				return fmt.Errorf("failed to list data products: %w", err)
			}

			err = renderOutput(cmd.OutOrStdout(), products, renderDataProductsTable)
			if err != nil {
				return err
			}

			printMoreHint(cmd.OutOrStdout(), more)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func renderDataProductsTable(out io.Writer, products []dph.DataProductSummary) error {
	if len(products) == 0 {
		_, _ = io.WriteString(out, "No data products found\n")

		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("ID", "Name", "Catalog", "Release")

	for _, product := range products {
		release := constants.NotAvailable
		if product.Release != nil {
			release = product.Release.ID
		}

		_ = table.Append(product.ID, valueOrNA(product.Name), product.Container.ID, release)
	}

	return table.Render()
}

func newDataProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DATA_PRODUCT_ID",
		Short: "Get data product details",
		Long:  "Display a data product with its latest release and open drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			product, err := dphClient.DataProducts().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get data product: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), product, renderDataProductDetails)
		},
	}
}

func renderDataProductDetails(out io.Writer, product *dph.DataProduct) error {
	latest := constants.NotAvailable
	if product.LatestRelease != nil {
		latest = fmt.Sprintf("%s (%s)", product.LatestRelease.Version, product.LatestRelease.ID)
	}

	return renderProperties(out, [][]string{
		{"ID", product.ID},
		{"Name", valueOrNA(product.Name)},
		{"Catalog", product.Container.ID},
		{"Latest Release", latest},
		{"Drafts", strconv.Itoa(len(product.Drafts))},
	})
}

// draftFlags describe a new draft on the command line.
type draftFlags struct {
	name        string
	version     string
	description string
	containerID string
	fromFile    string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "draft name")
	cmd.Flags().StringVar(&f.version, "version", "", "version number, e.g. 1.0.0")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.containerID, "container-id", "", "catalog holding the draft asset")
	cmd.Flags().StringVar(&f.fromFile, "from-file", "", "read the draft from a JSON or YAML file")
}

// prototype builds the draft body. A file replaces the flags entirely.
func (f *draftFlags) prototype() (*dph.DataProductDraftPrototype, error) {
	if f.fromFile != "" {
		var prototype dph.DataProductDraftPrototype

		err := readDocument(f.fromFile, &prototype)
		if err != nil {
			return nil, err
		}

		return &prototype, nil
	}

	if f.containerID == "" {
		return nil, ErrContainerIDRequired
	}

	return &dph.DataProductDraftPrototype{
		Name:        f.name,
		Version:     f.version,
		Description: f.description,
		Asset: dph.AssetReference{
			Container: dph.ContainerReference{ID: f.containerID, Type: dph.ContainerTypeCatalog},
		},
	}, nil
}

func newDataProductsCreateCommand() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a data product",
		Long:  "Create a data product together with its first draft",
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

			product, err := dphClient.DataProducts().Create(ctx, &dph.DataProductCreateRequest{
				Drafts: []dph.DataProductDraftPrototype{*prototype},
			})
			if err != nil {
				return fmt.Errorf("failed to create data product: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), product, renderDataProductDetails)
		},
	}

	flags.register(cmd)

	return cmd
}
