// Package designctl implements the designctl command line: generating
// designs through the relay and browsing the local history.
package designctl

import (
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

type settings struct {
	environ func() []string
	fs      afero.Fs
}

type Option func(*settings)

// WithEnviron replaces the process environment as the configuration source.
func WithEnviron(environ []string) Option {
	return func(s *settings) {
		s.environ = func() []string { return environ }
	}
}

// WithFs sets the filesystem used for request files and the file history
// backend.
func WithFs(fs afero.Fs) Option {
	return func(s *settings) { s.fs = fs }
}

func NewApp(opts ...Option) *cli.App {
	s := &settings{environ: os.Environ, fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(s)
	}

	return &cli.App{
		Name:  "designctl",
		Usage: "generate designs through the relay and browse past generations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "write diagnostic logs to stderr",
			},
		},
		Commands: []*cli.Command{
			s.generateCommand(),
			s.variantsCommand(),
			s.historyCommand(),
			presetsCommand(),
			typesCommand(),
		},
	}
}
