package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	hpq "github.com/maystreet/hpq-go"
)

// exit codes
const (
	exitOK    = 0
	exitError = 1
	exitINT   = 130
)

type rootConfig struct {
	url              string
	insecure         bool
	jwtFile          string
	secret           string
	prettyTimestamps bool
}

func newRootCmd() *cobra.Command {
	cfg := &rootConfig{}
	cmd := &cobra.Command{
		Use:           "hpq",
		Short:         "MayStreet historical price query CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfg.url, "url", "", "service endpoint (default from "+hpq.EnvEnvironment+")")
	pf.BoolVar(&cfg.insecure, "insecure", false, "skip TLS certificate verification (staging only)")
	pf.StringVar(&cfg.jwtFile, "jwt-file", "", "file holding the Bearer JWT (default from "+hpq.EnvJWTFile+")")
	pf.StringVar(&cfg.secret, "secret", "", "data-lake shared secret (default from "+hpq.EnvSecret+")")
	pf.BoolVar(&cfg.prettyTimestamps, "pretty-timestamps", false, "render timestamp fields as RFC 3339 strings")
	cmd.AddCommand(newQueryCmd(cfg), newPagesCmd(cfg))
	return cmd
}

// newClient builds a client from the environment, letting flags override it.
func (cfg *rootConfig) newClient() (*hpq.Client, error) {
	var opts []hpq.Option
	if cfg.url != "" {
		opts = append(opts, hpq.WithURL(cfg.url))
	}
	if cfg.insecure {
		opts = append(opts, hpq.WithInsecureSkipVerify())
	}
	if cfg.jwtFile != "" {
		token, err := hpq.BearerTokenFromFile(cfg.jwtFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, hpq.WithBearerToken(token))
	}
	if cfg.secret != "" {
		opts = append(opts, hpq.WithSecret(cfg.secret))
	}
	return hpq.NewFromEnvironment(opts...)
}

// readRequest loads the query request from the named file, or stdin for "-"
// or no argument.
func readRequest(args []string, stdin io.Reader) (map[string]interface{}, error) {
	in := stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	dec := json.NewDecoder(in)
	dec.UseNumber()
	var req map[string]interface{}
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return req, nil
}

// emit writes one record as a line of JSON.
func (cfg *rootConfig) emit(enc *json.Encoder, rec hpq.Record) error {
	if cfg.prettyTimestamps {
		hpq.FormatTimestamps(rec)
	}
	return enc.Encode(rec)
}
