package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dharsanguruparan/dbzmanager/internal/client"
	"github.com/dharsanguruparan/dbzmanager/internal/model"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printKV(w io.Writer, rows [][2]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	_ = tw.Flush()
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "no results")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(p *string) string {
	if p == nil {
		return "-"
	}
	return orDash(*p)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func printUploads(w io.Writer, items []model.Upload) {
	rows := make([][]string, 0, len(items))
	for _, u := range items {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.FileNumber,
			u.Design,
			u.FrontDepth,
			u.Industry,
			deref(u.FileURL1),
			deref(u.FileURL2),
		})
	}
	printTable(w, []string{"ID", "FILE_NUMBER", "DESIGN", "FRONT_DEPTH", "INDUSTRY", "FILE_1", "FILE_2"}, rows)
}

func printSummary(w io.Writer, summary []model.DesignDepthCount, counts []model.DesignCount, total int64) {
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{s.Design, s.FrontDepth, strconv.FormatInt(s.UploadCount, 10)})
	}
	printTable(w, []string{"DESIGN", "FRONT_DEPTH", "UPLOADS"}, rows)
	_, _ = fmt.Fprintln(w)

	rows = rows[:0]
	for _, c := range counts {
		rows = append(rows, []string{c.Design, strconv.FormatInt(c.UploadCount, 10)})
	}
	printTable(w, []string{"DESIGN", "UPLOADS"}, rows)
	_, _ = fmt.Fprintf(w, "\ntotal uploads: %d\n", total)
}

func printInquiries(w io.Writer, items []client.Inquiry) {
	rows := make([][]string, 0, len(items))
	for _, in := range items {
		rows = append(rows, []string{
			strconv.FormatInt(in.ID, 10),
			orDash(in.CompanyName),
			orDash(in.ContactPerson),
			orDash(in.ContactEmail),
			orDash(in.EventName),
			formatTime(in.SubmissionTime),
			deref(in.FloorPlanDownloadLink),
			deref(in.LogoFileDownloadLink),
		})
	}
	printTable(w, []string{"ID", "COMPANY", "CONTACT", "EMAIL", "EVENT", "SUBMITTED", "FLOOR_PLAN", "LOGO"}, rows)
}

func printDirectories(w io.Writer, items []client.Directory) {
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.ExhibitionName,
			orDash(d.Year),
			orDash(d.Venue),
			deref(d.DocumentDownloadLink),
		})
	}
	printTable(w, []string{"ID", "EXHIBITION", "YEAR", "VENUE", "DOCUMENT"}, rows)
}

func printEvents(w io.Writer, items []model.Event) {
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.ExhibitionName,
			orDash(e.StartDate),
			orDash(e.EndDate),
			orDash(e.Venue),
			orDash(e.City),
			strconv.FormatBool(e.DirectoryAvailable),
			orDash(e.ExistingClients),
		})
	}
	printTable(w, []string{"ID", "EXHIBITION", "START", "END", "VENUE", "CITY", "DIRECTORY", "CLIENTS"}, rows)
}
