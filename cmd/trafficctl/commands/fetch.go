// Package commands implements CLI command handlers for trafficctl.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/utkuyucel/ibbtraffic/pkg/reader"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	BaseURL string
	Timeout time.Duration
	Format  string
	Limit   int
	Params  []string
}

// NewFetchCommand creates the fetch command: a one-shot read of a traffic API
// endpoint with table or JSON output.
func NewFetchCommand() *cobra.Command {
	opts := &FetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <endpoint>",
		Short: "Fetch traffic data from an API endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.BaseURL, "base-url", reader.DefaultBaseURL, "traffic API base URL")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "output format: table, json")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum records to print (0 = all)")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "query parameter as key=value (repeatable)")

	return cmd
}

func runFetch(out io.Writer, endpoint string, opts *FetchOptions) error {
	params, err := parseParams(opts.Params)
	if err != nil {
		return err
	}

	client := reader.New(opts.BaseURL, reader.WithTimeout(opts.Timeout))

	resp, err := client.Get(context.Background(), endpoint, params)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}

	records := resp.Records
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if resp.OK() {
		color.New(color.FgGreen).Fprintf(out, "HTTP %d, %d record(s)\n", resp.StatusCode, len(resp.Records))
	} else {
		color.New(color.FgRed).Fprintf(out, "HTTP %d: %s\n", resp.StatusCode, resp.Message)
		return resp.Err()
	}

	if len(records) == 0 {
		return nil
	}

	renderRecords(out, records)

	return nil
}

// renderRecords prints records as a table. Columns are the sorted keys of the
// first record; missing values render empty.
func renderRecords(out io.Writer, records []reader.Record) {
	keys := make([]string, 0, len(records[0]))
	for k := range records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := make(table.Row, len(keys))
	for i, k := range keys {
		header[i] = k
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(header)

	for _, rec := range records {
		row := make(table.Row, len(keys))
		for i, k := range keys {
			if v, ok := rec[k]; ok {
				row[i] = fmt.Sprintf("%v", v)
			} else {
				row[i] = ""
			}
		}
		tbl.AppendRow(row)
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d record(s)", len(records))})
	tbl.Render()
}

func parseParams(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q, expected key=value", pair)
		}
		params.Add(key, value)
	}

	return params, nil
}
