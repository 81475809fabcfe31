package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	hpq "github.com/maystreet/hpq-go"
	"github.com/maystreet/hpq-go/internal/jsonarray"
)

func newQueryCmd(cfg *rootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "query [request.json]",
		Short: "Run one query and print its records as JSON lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), cfg, req, os.Stdout)
		},
	}
}

func runQuery(ctx context.Context, cfg *rootConfig, req map[string]interface{}, w io.Writer) error {
	c, err := cfg.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Disconnect() }()
	if err := c.Connect(ctx); err != nil {
		return err
	}

	body, err := c.Stream(req)
	if err != nil {
		return err
	}
	dec := jsonarray.NewDecoder(body)
	enc := json.NewEncoder(w)
	for {
		var rec hpq.Record
		err := dec.Next(&rec)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cfg.emit(enc, rec); err != nil {
			return err
		}
	}
}
