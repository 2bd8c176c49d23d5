package commands

import (
	"fmt"
	"io"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/spf13/cobra"
)

// NewDocumentsCommand creates the documents command group
func NewDocumentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"document", "docs"},
		Short:   "Manage contract terms documents",
		Long:    "Attach, inspect and remove the documents of a version's contract terms",
	}

	cmd.AddCommand(newDocumentsGetCommand())
	cmd.AddCommand(newDocumentsCreateCommand())
	cmd.AddCommand(newDocumentsDeleteCommand())
	cmd.AddCommand(newDocumentsCompleteCommand())

	return cmd
}

// documentRef maps DATA_PRODUCT_ID VERSION_ID CONTRACT_TERMS_ID DOCUMENT_ID.
func documentRef(args []string) dph.DocumentRef {
	return dph.DocumentRef{
		ContractTermsRef: dph.ContractTermsRef{
			DataProductID:   args[0],
			VersionID:       args[1],
			ContractTermsID: args[2],
		},
		DocumentID: args[3],
	}
}

func renderDocumentDetails(out io.Writer, document *dph.ContractTermsDocument) error {
	attachment := ""
	if document.Attachment != nil {
		attachment = document.Attachment.ID
	}

	return renderProperties(out, [][]string{
		{"ID", document.ID},
		{"Type", document.Type},
		{"Name", valueOrNA(document.Name)},
		{"URL", valueOrNA(document.URL)},
		{"Attachment", valueOrNA(attachment)},
		{"Upload URL", valueOrNA(truncate(document.UploadURL))},
	})
}

func newDocumentsGetCommand() *cobra.Command {
	var fromRelease bool

	cmd := &cobra.Command{
		Use:   "get DATA_PRODUCT_ID VERSION_ID CONTRACT_TERMS_ID DOCUMENT_ID",
		Short: "Get a document",
		Long:  "Display a contract terms document of a draft, or of a release with --release",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			var document *dph.ContractTermsDocument
			if fromRelease {
				document, err = dphClient.Releases().GetContractTermsDocument(ctx, documentRef(args))
			} else {
				document, err = dphClient.ContractTerms().GetDocument(ctx, documentRef(args))
			}

			if err != nil {
				return fmt.Errorf("failed to get document: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), document, renderDocumentDetails)
		},
	}

	cmd.Flags().BoolVar(&fromRelease, "release", false, "VERSION_ID is a release rather than a draft")

	return cmd
}

func newDocumentsCreateCommand() *cobra.Command {
	var request dph.ContractTermsDocumentCreateRequest

	cmd := &cobra.Command{
		Use:   "create DATA_PRODUCT_ID DRAFT_ID CONTRACT_TERMS_ID",
		Short: "Attach a document",
		Long: `Attach a link or an attachment to the contract terms of a draft.

Attachments are uploaded to the returned upload URL and then confirmed
with 'dph documents complete'.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			ref := dph.ContractTermsRef{DataProductID: args[0], VersionID: args[1], ContractTermsID: args[2]}

			document, err := dphClient.ContractTerms().CreateDocument(ctx, ref, &request)
			if err != nil {
				return fmt.Errorf("failed to create document: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), document, renderDocumentDetails)
		},
	}

	cmd.Flags().StringVar(&request.Type, "type", dph.DocumentTypeTermsAndConditions, "document type (terms_and_conditions, sla)")
	cmd.Flags().StringVar(&request.Name, "name", "", "document name")
	cmd.Flags().StringVar(&request.URL, "url", "", "link target, for link documents")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newDocumentsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATA_PRODUCT_ID DRAFT_ID CONTRACT_TERMS_ID DOCUMENT_ID",
		Short: "Delete a document",
		Long:  "Remove a document from the contract terms of a draft",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			err = dphClient.ContractTerms().DeleteDocument(ctx, documentRef(args))
			if err != nil {
				return fmt.Errorf("failed to delete document: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s\n", args[3])

			return nil
		},
	}
}

func newDocumentsCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete DATA_PRODUCT_ID DRAFT_ID CONTRACT_TERMS_ID DOCUMENT_ID",
		Short: "Complete an attachment upload",
		Long:  "Tell the service that the attachment of a document has been uploaded",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			dphClient, err := newClient(ctx)
			if err != nil {
				return err
			}

			document, err := dphClient.ContractTerms().CompleteDocumentUpload(ctx, documentRef(args))
			if err != nil {
				return fmt.Errorf("failed to complete upload: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), document, renderDocumentDetails)
		},
	}
}
