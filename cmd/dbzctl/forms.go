package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/dbzmanager/internal/client"
)

func newInquiriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inquiries",
		Short: "Submit and review stall inquiries",
	}

	var fields map[string]string
	var floorPlan, logo string
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit an inquiry form",
		Example: `  dbzctl inquiries submit --set companyName=Acme --set contactEmail=ops@acme.test \
    --set seatingRequirements='["sofa"]' --floor-plan plan.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			in, err := c.SubmitInquiry(cmd.Context(), fields, floorPlan, logo)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), in)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inquiry %d submitted\n", in.ID)
			return nil
		},
	}
	submit.Flags().StringToStringVar(&fields, "set", nil, "Form field as name=value (camelCase names, repeatable)")
	submit.Flags().StringVar(&floorPlan, "floor-plan", "", "Floor plan file to attach")
	submit.Flags().StringVar(&logo, "logo", "", "Logo file to attach")

	list := &cobra.Command{
		Use:   "list",
		Short: "List inquiries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			items, err := c.ListInquiries(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), items)
			}
			printInquiries(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.AddCommand(submit, list, newDownloadCmd(a, client.InquiryFiles))
	return cmd
}

func newDirectoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directories",
		Short: "Manage exhibition directories",
	}

	var in client.DirectoryInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an exhibition directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			d, err := c.AddDirectory(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "directory %d added\n", d.ID)
			return nil
		},
	}
	add.Flags().StringVar(&in.ExhibitionName, "name", "", "Exhibition name")
	add.Flags().StringVar(&in.Year, "year", "", "Year")
	add.Flags().StringVar(&in.Venue, "venue", "", "Venue")
	add.Flags().StringVar(&in.Document, "document", "", "Directory document to attach")

	list := &cobra.Command{
		Use:   "list",
		Short: "List exhibition directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			items, err := c.ListDirectories(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), items)
			}
			printDirectories(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.AddCommand(add, list, newDownloadCmd(a, client.DirectoryFiles))
	return cmd
}

// newDownloadCmd saves an attachment served by route. The file lands in the
// working directory under its stored name unless --output says otherwise;
// "-" writes to stdout.
func newDownloadCmd(a *app, route string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <file>",
		Short: "Download an attached file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			name := args[0]
			if output == "-" {
				_, err := c.Download(cmd.Context(), route, name, cmd.OutOrStdout())
				return err
			}
			dst := output
			if dst == "" {
				dst = filepath.Base(name)
			}
			n, err := downloadTo(cmd.Context(), c, route, name, dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %s (%d bytes)\n", dst, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path, or - for stdout")
	return cmd
}

func downloadTo(ctx context.Context, c *client.Client, route, name, dst string) (int64, error) {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := c.Download(ctx, route, name, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	return n, nil
}

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Record and list upcoming exhibitions",
	}

	var in client.EventInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			if err := c.AddEvent(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "event added")
			return nil
		},
	}
	add.Flags().StringVar(&in.ExhibitionName, "name", "", "Exhibition name")
	add.Flags().StringVar(&in.StartDate, "start", "", "Start date, YYYY-MM-DD")
	add.Flags().StringVar(&in.EndDate, "end", "", "End date, YYYY-MM-DD")
	add.Flags().StringVar(&in.Venue, "venue", "", "Venue")
	add.Flags().StringVar(&in.City, "city", "", "City")
	add.Flags().BoolVar(&in.DirectoryAvailable, "directory-available", false, "A directory is available for the event")
	add.Flags().StringSliceVar(&in.ExistingClients, "client", nil, "Existing client exhibiting (repeatable)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List events, latest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			items, err := c.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), items)
			}
			printEvents(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
