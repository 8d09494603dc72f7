package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/dbzmanager/internal/client"
	"github.com/dharsanguruparan/dbzmanager/internal/model"
)

func newUploadsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Manage the stall design catalog",
	}
	cmd.AddCommand(
		newUploadsListCmd(a),
		newUploadsCreateCmd(a),
		newUploadsEditCmd(a),
		newUploadsDeleteCmd(a),
		newUploadsSummaryCmd(a),
		newUploadsIndustriesCmd(a),
	)
	return cmd
}

// frontDepth joins the admin panel's two size inputs the way records store
// them. Both or neither must be given.
func frontDepth(front, depth string) (string, error) {
	front, depth = strings.TrimSpace(front), strings.TrimSpace(depth)
	switch {
	case front == "" && depth == "":
		return "", nil
	case front == "" || depth == "":
		return "", errors.New("--front and --depth must be given together")
	}
	return front + " X " + depth, nil
}

func newUploadsListCmd(a *app) *cobra.Command {
	var design, front, depth, industry string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploads, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fd, err := frontDepth(front, depth)
			if err != nil {
				return err
			}
			c, _, err := a.client()
			if err != nil {
				return err
			}
			items, err := c.ListUploads(cmd.Context(), model.UploadFilter{Design: design, FrontDepth: fd, Industry: industry})
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), items)
			}
			printUploads(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().StringVar(&design, "design", "", "Exact design")
	cmd.Flags().StringVar(&front, "front", "", "Stall front in metres")
	cmd.Flags().StringVar(&depth, "depth", "", "Stall depth in metres")
	cmd.Flags().StringVar(&industry, "industry", "", "Exact industry")
	return cmd
}

func newUploadsCreateCmd(a *app) *cobra.Command {
	var in client.UploadInput
	var front, depth string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a design with up to two files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fd, err := frontDepth(front, depth)
			if err != nil {
				return err
			}
			in.FrontDepth = fd
			c, _, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.CreateUpload(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printKV(cmd.OutOrStdout(), [][2]string{
				{"file_number", res.FileNumber},
				{"file_1", deref(res.FileURLs.File1)},
				{"file_2", deref(res.FileURLs.File2)},
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Design, "design", "", "Design, for example \"2 side open\"")
	cmd.Flags().StringVar(&front, "front", "", "Stall front in metres")
	cmd.Flags().StringVar(&depth, "depth", "", "Stall depth in metres")
	cmd.Flags().StringVar(&in.Industry, "industry", "", "Industry")
	cmd.Flags().StringVar(&in.File1, "file1", "", "First file to attach")
	cmd.Flags().StringVar(&in.File2, "file2", "", "Second file to attach")
	return cmd
}

func newUploadsEditCmd(a *app) *cobra.Command {
	var edit client.UploadEdit
	var design, front, depth, industry string
	cmd := &cobra.Command{
		Use:   "edit <file-number>",
		Short: "Change fields or files of an upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("design") {
				edit.Design = &design
			}
			if flags.Changed("industry") {
				edit.Industry = &industry
			}
			if flags.Changed("front") || flags.Changed("depth") {
				fd, err := frontDepth(front, depth)
				if err != nil {
					return err
				}
				edit.FrontDepth = &fd
			}
			c, _, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.EditUpload(cmd.Context(), args[0], edit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			f := res.UpdatedFields
			printKV(cmd.OutOrStdout(), [][2]string{
				{"design", f.Design},
				{"front_depth", f.FrontDepth},
				{"industry", f.Industry},
				{"file_1", deref(f.FileURLs.File1)},
				{"file_2", deref(f.FileURLs.File2)},
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&design, "design", "", "New design")
	cmd.Flags().StringVar(&front, "front", "", "New stall front")
	cmd.Flags().StringVar(&depth, "depth", "", "New stall depth")
	cmd.Flags().StringVar(&industry, "industry", "", "New industry")
	cmd.Flags().StringVar(&edit.File1, "file1", "", "Replacement for the first file")
	cmd.Flags().StringVar(&edit.File2, "file2", "", "Replacement for the second file")
	return cmd
}

func newUploadsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an upload and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			c, _, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteUpload(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "upload %d deleted\n", id)
			return nil
		},
	}
}

func newUploadsSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show upload counts per design and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			summary, err := c.Summary(cmd.Context())
			if err != nil {
				return err
			}
			counts, total, err := c.Counts(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"summary":       summary,
					"design_counts": counts,
					"total_uploads": total,
				})
			}
			printSummary(cmd.OutOrStdout(), summary, counts, total)
			return nil
		},
	}
}

func newUploadsIndustriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "industries",
		Short: "List the industries in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client()
			if err != nil {
				return err
			}
			items, err := c.Industries(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), items)
			}
			for _, i := range items {
				fmt.Fprintln(cmd.OutOrStdout(), i)
			}
			return nil
		},
	}
}
