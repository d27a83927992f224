package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/pocketbase-client/internal/constants"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/spf13/cobra"
)

// NewRecordsCommand creates the records command group.
func NewRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record"},
		Short:   "Manage collection records",
		Long:    "List, create, update, and delete records in a collection",
	}

	cmd.AddCommand(newRecordsListCommand())
	cmd.AddCommand(newRecordsGetCommand())
	cmd.AddCommand(newRecordsCreateCommand())
	cmd.AddCommand(newRecordsUpdateCommand())
	cmd.AddCommand(newRecordsDeleteCommand())

	return cmd
}

func newRecordsListCommand() *cobra.Command {
	var (
		filter   string
		sortExpr string
		expand   string
		page     int
		perPage  int
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list COLLECTION",
		Short: "List records",
		Long:  "List records in a collection with optional filtering and sorting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			records := client.Collection(collection)

			opts := &pocketbase.ListOptions{
				Filter: filter,
				Sort:   sortExpr,
				Expand: expand,
			}

			if allPages {
				items, err := records.ListAll(ctx, perPage, opts)
				if err != nil {
					return fmt.Errorf("failed to list records: %w", err)
				}

				return renderRecords(items)
			}

			opts.Page = page
			opts.PerPage = perPage

			result, err := records.List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			if err := renderRecords(result.Items); err != nil {
				return err
			}

			if result.TotalPages > 1 {
				fmt.Fprintf(os.Stdout, "Page %d of %d (%d records total)\n",
					result.Page, result.TotalPages, result.TotalItems)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filter expression")
	cmd.Flags().StringVar(&sortExpr, "sort", "", "sort expression (e.g. -created,title)")
	cmd.Flags().StringVar(&expand, "expand", "", "relations to expand")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPageSize, "records per page")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func newRecordsGetCommand() *cobra.Command {
	var expand string

	cmd := &cobra.Command{
		Use:   "get COLLECTION RECORD_ID",
		Short: "Get a record",
		Long:  "Fetch a single record by its id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			recordID := args[1]

			if recordID == "" {
				return constants.ErrRecordIDRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			record, err := client.Collection(collection).GetOne(ctx, recordID, expand)
			if err != nil {
				return fmt.Errorf("failed to get record: %w", err)
			}

			return renderRecord(record)
		},
	}

	cmd.Flags().StringVar(&expand, "expand", "", "relations to expand")

	return cmd
}

func newRecordsCreateCommand() *cobra.Command {
	var (
		data   []string
		expand string
	)

	cmd := &cobra.Command{
		Use:   "create COLLECTION",
		Short: "Create a record",
		Long:  "Create a new record from --data values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]

			fields, err := parseRecordData(data)
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var opts *pocketbase.WriteOptions
			if expand != "" {
				opts = &pocketbase.WriteOptions{Expand: expand}
			}

			record, err := client.Collection(collection).Create(ctx, fields, opts)
			if err != nil {
				return fmt.Errorf("failed to create record: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully created record '%s'\n", formatValue(record["id"]))

			return renderRecord(record)
		},
	}

	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "field data as JSON or key=value (repeatable)")
	cmd.Flags().StringVar(&expand, "expand", "", "relations to expand")

	return cmd
}

func newRecordsUpdateCommand() *cobra.Command {
	var (
		data   []string
		expand string
	)

	cmd := &cobra.Command{
		Use:   "update COLLECTION RECORD_ID",
		Short: "Update a record",
		Long:  "Apply a partial update to an existing record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			recordID := args[1]

			fields, err := parseRecordData(data)
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var opts *pocketbase.WriteOptions
			if expand != "" {
				opts = &pocketbase.WriteOptions{Expand: expand}
			}

			record, err := client.Collection(collection).Update(ctx, recordID, fields, opts)
			if err != nil {
				return fmt.Errorf("failed to update record: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully updated record '%s'\n", recordID)

			return renderRecord(record)
		},
	}

	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "field data as JSON or key=value (repeatable)")
	cmd.Flags().StringVar(&expand, "expand", "", "relations to expand")

	return cmd
}

func newRecordsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete COLLECTION RECORD_ID",
		Short: "Delete a record",
		Long:  "Delete a record by its id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			recordID := args[1]

			if !force {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete record '%s' from '%s'? (y/N): ", recordID, collection)

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if err := client.Collection(collection).Delete(ctx, recordID); err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully deleted record '%s'\n", recordID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}
