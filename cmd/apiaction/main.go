// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command apiaction invokes endpoints declared in a configuration file
// and prints their lifecycle notifications as JSON lines.
//
//	apiaction endpoints --config pets.yaml
//	apiaction call --config pets.yaml getPet 42
//
// Interrupting a call aborts the request in flight.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gogama/apiaction"
	"github.com/gogama/apiaction/config"
	"github.com/gogama/apiaction/dispatch"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "apiaction",
		Short:         "Invoke declared API endpoints and print their notifications",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetHandler(cli.New(cmd.ErrOrStderr()))
			if flags.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "apiaction.yaml", "Configuration file (YAML or JSON)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose log output")
	cmd.AddCommand(newEndpointsCmd(flags), newCallCmd(flags))
	return cmd
}

func newEndpointsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the endpoints in the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			creator, err := f.Creator(dispatch.NewRegistry(), log.Log)
			if err != nil {
				return err
			}
			eps := f.Endpoints()
			for _, name := range creator.Names() {
				ep := eps[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\n", name, ep.Method, ep.Route)
			}
			return nil
		},
	}
}

func newCallCmd(flags *rootFlags) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "call NAME [ARGS...]",
		Short: "Invoke one endpoint and print its notifications",
		Long: `Invoke one endpoint and print each notification as a JSON line.

Arguments that parse as JSON are passed as the decoded value; any other
argument is passed as a string. The command fails unless the request
resolves.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			registry := dispatch.NewRegistry()
			printer := &printer{w: cmd.OutOrStdout()}
			registry.Register(printer)
			creator, err := f.Creator(registry, log.Log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return call(ctx, creator, args[0], parseArgs(args[1:]))
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the request after this long (0 means never)")
	return cmd
}

// call invokes name and waits for it to settle, aborting it if ctx
// ends first.
func call(ctx context.Context, creator *apiaction.Creator, name string, args []interface{}) error {
	r, err := creator.Invoke(name, args...)
	if err != nil {
		return err
	}

	select {
	case <-r.Done():
	case <-ctx.Done():
		if r.Abort() {
			log.WithField("request", r.ID).Warn("aborted")
		}
	}
	_, err = r.Wait()
	if err != nil {
		return errors.Wrapf(err, "%s", name)
	}
	return nil
}

func parseArgs(raw []string) []interface{} {
	args := make([]interface{}, len(raw))
	for i, s := range raw {
		var v interface{}
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			v = s
		}
		args[i] = v
	}
	return args
}

// printer writes notifications as JSON lines.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

type line struct {
	Type     dispatch.Type `json:"type"`
	Endpoint string        `json:"endpoint"`
	Request  string        `json:"request"`
	Status   int           `json:"status,omitempty"`
	Body     interface{}   `json:"body,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func (p *printer) Handle(a dispatch.Action) {
	n, ok := a.(*apiaction.Notification)
	if !ok {
		return
	}
	l := line{
		Type:     n.Type,
		Endpoint: n.Request.Endpoint,
		Request:  n.Request.ID,
	}
	if n.Response != nil {
		l.Status = n.Response.StatusCode
		l.Body = n.Response.Body
		if n.Response.Error != nil {
			l.Error = n.Response.Error.Error()
		}
	}
	b, err := json.Marshal(l)
	if err != nil {
		log.WithError(err).Error("encoding notification")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.w.Write(append(b, '\n'))
}
