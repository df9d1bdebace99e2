// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"
	"time"

	"cyphergremlin/cli/internal/config"
	"cyphergremlin/cli/internal/cypher"
	"cyphergremlin/cli/internal/endpoint"
	clierrors "cyphergremlin/cli/internal/errors"
	"cyphergremlin/cli/internal/gremlin"
	"cyphergremlin/cli/internal/keychain"
	"cyphergremlin/cli/internal/logging"

	"github.com/spf13/cobra"
)

// retryDelay is the pause between attempts when --retries is set.
const retryDelay = 500 * time.Millisecond

// Password sources reported by the info command.
const (
	passwordNone     = "none"
	passwordURL      = "url"
	passwordEnv      = config.EnvPassword
	passwordKeychain = "keychain"
)

// session is the effective connection setup of one command run.
type session struct {
	cfg            config.Config
	url            string
	password       string
	passwordSource string
}

// applyFlags overlays explicitly set global flags on c.
func applyFlags(cmd *cobra.Command, c config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("url") {
		c.Server.URL = flagURL
	}
	if flags.Changed("user") {
		c.Server.Username = flagUser
	}
	if flags.Changed("traversal-source") {
		c.Server.TraversalSource = flagTraversalSource
	}
	if flags.Changed("graph") {
		c.Server.Graph = flagGraph
	}
	if flags.Changed("serializer") {
		c.Server.Serializer = flagSerializer
	}
	return c
}

// loadSession resolves settings with flags over environment over the config
// file. The password comes from the URL, the environment or the keychain, in
// that order.
func loadSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, clierrors.Wrap(clierrors.ConfigInvalid, "cannot read configuration", err)
	}
	cfg = applyFlags(cmd, config.ApplyEnv(cfg))

	if strings.TrimSpace(cfg.Server.URL) == "" {
		return nil, clierrors.New(clierrors.ConfigInvalid, "no Gremlin Server configured; pass --url or run 'cypher-gremlin connect'")
	}
	url, info, err := endpoint.Normalize(cfg.Server.URL)
	if err != nil {
		return nil, clierrors.Wrap(clierrors.ConfigInvalid, "invalid server address", err)
	}

	s := &session{cfg: cfg, url: url, passwordSource: passwordNone}
	s.cfg.Server.URL = url
	if info.User != "" {
		s.cfg.Server.Username = info.User
	}

	switch {
	case info.Password != "":
		s.password, s.passwordSource = info.Password, passwordURL
	default:
		if pw, ok := config.PasswordFromEnv(); ok {
			s.password, s.passwordSource = pw, passwordEnv
		} else if s.cfg.Server.Username != "" {
			if km, err := keychain.GetManager(); err == nil {
				if pw, err := km.LoadPassword(url); err == nil {
					s.password, s.passwordSource = pw, passwordKeychain
				}
			}
		}
	}

	logging.L().Debug("resolved server settings", logging.L().Args(
		"url", url,
		"user", s.cfg.Server.Username,
		"serializer", s.cfg.Server.Serializer,
		"password", s.passwordSource,
	))
	return s, nil
}

// gremlinClient builds the protocol client for s.
func (s *session) gremlinClient(extra ...gremlin.Option) (*gremlin.Client, error) {
	ser, err := gremlin.SerializerByName(s.cfg.Server.Serializer)
	if err != nil {
		return nil, clierrors.Wrap(clierrors.ConfigInvalid, "unsupported serializer", err)
	}
	opts := []gremlin.Option{gremlin.WithSerializer(ser), gremlin.WithLogger(logging.L())}
	if s.cfg.Server.Username != "" {
		opts = append(opts, gremlin.WithCredentials(s.cfg.Server.Username, s.password))
	}
	opts = append(opts, extra...)
	return gremlin.NewClient(s.url, opts...), nil
}

// cypherClient wraps gc with the configured request options.
func (s *session) cypherClient(gc *gremlin.Client) *cypher.Client {
	return cypher.NewClient(gc,
		cypher.WithTraversalSource(s.cfg.Server.TraversalSource),
		cypher.WithGraph(s.cfg.Server.Graph),
		cypher.WithBatchSize(s.cfg.Server.BatchSize),
		cypher.WithServer(s.url),
		cypher.WithLogger(logging.L()),
	)
}

// runner adds retries around c when requested. A negative retries value
// falls back to the configured default.
func (s *session) runner(c *cypher.Client, retries int) cypher.Runner {
	if retries < 0 {
		retries = s.cfg.Retries
	}
	if retries <= 0 {
		return c
	}
	return cypher.NewRetrier(c, retries+1, retryDelay)
}
