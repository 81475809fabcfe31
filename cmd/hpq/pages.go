package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	hpq "github.com/maystreet/hpq-go"
)

func newPagesCmd(cfg *rootConfig) *cobra.Command {
	var perPage int
	var maxPages int
	cmd := &cobra.Command{
		Use:   "pages [request.json]",
		Short: "Run a query page by page, resuming after each page's last record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runPages(cmd.Context(), cfg, req, perPage, maxPages, os.Stdout)
		},
	}
	cmd.Flags().IntVar(&perPage, "per-page", 1000, "records per page")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = all)")
	return cmd
}

func runPages(ctx context.Context, cfg *rootConfig, req map[string]interface{}, perPage, maxPages int, w io.Writer) error {
	c, err := cfg.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Disconnect() }()
	if err := c.Connect(ctx); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	pages := hpq.NewPages(c, req, perPage)
	for n := 0; maxPages == 0 || n < maxPages; n++ {
		page, err := pages.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		it, err := page.Records()
		if err != nil {
			return err
		}
		for {
			rec, err := it.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if err := cfg.emit(enc, rec); err != nil {
				return err
			}
		}
	}
	return c.Cancel()
}
