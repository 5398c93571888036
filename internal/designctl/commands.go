package designctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"design-campaign-backend/internal/config"
	"design-campaign-backend/internal/designs"
	"design-campaign-backend/internal/history"
	"design-campaign-backend/internal/logger"
	"design-campaign-backend/internal/models"
	"design-campaign-backend/internal/relay"
	"design-campaign-backend/internal/services"
	"design-campaign-backend/internal/workflow"
)

const previewMaxHeight = 400

type runtime struct {
	cfg     *config.ClientConfig
	log     *logger.Logger
	relay   *relay.Client
	history *services.HistoryService
}

func (s *settings) setup(c *cli.Context, withHistory bool) (*runtime, error) {
	cfg, err := config.LoadClientFromEnviron(s.environ())
	if err != nil {
		return nil, err
	}

	log := logger.Nop()
	if c.Bool("verbose") {
		if log, err = logger.New(cfg.Environment); err != nil {
			return nil, err
		}
	}

	rt := &runtime{
		cfg:   cfg,
		log:   log,
		relay: relay.NewClient(cfg.RelayURL, cfg.RelayTimeout),
	}
	if withHistory {
		rt.history, err = services.NewHistoryService(c.Context, cfg, s.fs, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
	}
	return rt, nil
}

func (rt *runtime) close() {
	if rt.history != nil {
		if err := rt.history.Close(); err != nil {
			rt.log.Warn("failed to close history backend", "error", err)
		}
	}
	rt.log.Sync()
}

func (s *settings) generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "submit a design request and wait for the variants",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Usage: "start from a named preset"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read the request JSON from `PATH` (- for stdin)"},
			&cli.StringFlag{Name: "from-history", Usage: "replay the request stored under history `ID`"},
			&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}},
			&cli.StringFlag{Name: "type"},
			&cli.StringFlag{Name: "subtype"},
			&cli.IntFlag{Name: "width"},
			&cli.IntFlag{Name: "height"},
			&cli.IntFlag{Name: "variants", Aliases: []string{"n"}},
			&cli.StringFlag{Name: "language"},
		},
		Action: s.runGenerate,
	}
}

func (s *settings) runGenerate(c *cli.Context) error {
	rt, err := s.setup(c, true)
	if err != nil {
		return err
	}
	defer rt.close()

	req, err := s.buildRequest(c, rt.history.Store)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	out := c.App.Writer
	wf := workflow.New(rt.relay, rt.history.Store,
		workflow.WithBackoff(services.PollBackoff(rt.cfg.Poll)),
		workflow.WithLogger(rt.log.With("component", "workflow")),
		workflow.WithOnLog(func(entry models.LogEntry) {
			fmt.Fprintln(out, entry.String())
		}),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := wf.Submit(ctx, req)
	if state.InProgress() {
		state, _ = wf.Wait(ctx)
	}
	if ctx.Err() != nil {
		wf.Clear()
		return cli.Exit("cancelled", 130)
	}

	switch state.Phase {
	case workflow.Completed:
		printVariants(out, &req, state.Variants)
		if state.HistoryID != "" {
			fmt.Fprintf(out, "History ID: %s\n", state.HistoryID)
		}
		return nil
	default:
		return cli.Exit(fmt.Sprintf("generation ended in state %s", state.Phase), 1)
	}
}

// buildRequest picks the base request (file, history entry, preset or the
// default) and applies flag overrides on top.
func (s *settings) buildRequest(c *cli.Context, store *history.Store) (models.GenerationRequest, error) {
	var req models.GenerationRequest

	switch {
	case c.IsSet("file"):
		data, err := s.readInput(c.String("file"), c.App.Reader)
		if err != nil {
			return req, err
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to decode request file: %w", err)
		}
	case c.IsSet("from-history"):
		rec, ok := store.Get(c.Context, c.String("from-history"))
		if !ok {
			return req, cli.Exit(fmt.Sprintf("no history entry %q", c.String("from-history")), 2)
		}
		req = rec.APIInput.Clone()
	case c.IsSet("preset"):
		preset, ok := designs.LookupPreset(c.String("preset"))
		if !ok {
			return req, cli.Exit(fmt.Sprintf("unknown preset %q (try: designctl presets)", c.String("preset")), 2)
		}
		req = preset.Request
	default:
		req = designs.DefaultRequest()
	}

	if c.IsSet("prompt") {
		req.Prompt = c.String("prompt")
	}
	if c.IsSet("type") || c.IsSet("subtype") {
		if c.IsSet("type") {
			req.Type = c.String("type")
		}
		if c.IsSet("subtype") {
			req.Subtype = c.String("subtype")
		}
		designs.ApplyCatalogDimension(&req)
	}
	if c.IsSet("width") || c.IsSet("height") {
		dim := designs.Resolve(&req)
		if c.IsSet("width") {
			dim.Width = c.Int("width")
		}
		if c.IsSet("height") {
			dim.Height = c.Int("height")
		}
		req.Dimension = &dim
	}
	if c.IsSet("variants") {
		req.NumOfVariants = c.Int("variants")
	}
	if c.IsSet("language") {
		req.Language = c.String("language")
	}
	return req, nil
}

func (s *settings) readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func printVariants(w io.Writer, req *models.GenerationRequest, variants []models.Variant) {
	if len(variants) == 0 {
		fmt.Fprintln(w, "No variants returned.")
		return
	}
	preview := designs.DisplaySize(designs.Resolve(req), previewMaxHeight)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tID\tPREVIEW\tIMAGE\tEDIT\n")
	for i, v := range variants {
		fmt.Fprintf(tw, "%d\t%s\t%d×%d\t%s\t%s\n", i+1, v.ID, preview.Width, preview.Height, v.URL, v.EditLink)
	}
	tw.Flush()
}

func (s *settings) variantsCommand() *cli.Command {
	return &cli.Command{
		Name:  "variants",
		Usage: "list the variants of a design",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "design-id", Required: true},
		},
		Action: func(c *cli.Context) error {
			rt, err := s.setup(c, false)
			if err != nil {
				return err
			}
			defer rt.close()

			env, err := rt.relay.DesignVariants(c.Context, c.String("design-id"))
			if err != nil {
				return fmt.Errorf("failed to fetch variants: %w", err)
			}
			if err := printJSON(c.App.Writer, env.Raw); err != nil {
				return err
			}
			if env.Status != 200 {
				return cli.Exit(fmt.Sprintf("upstream returned status %d", env.Status), 1)
			}
			return nil
		},
	}
}

func (s *settings) historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "browse past generations",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list stored generations, most recent first",
				Action: func(c *cli.Context) error {
					rt, err := s.setup(c, true)
					if err != nil {
						return err
					}
					defer rt.close()

					records := rt.history.Store.List(c.Context)
					if len(records) == 0 {
						fmt.Fprintln(c.App.Writer, "History is empty.")
						return nil
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					for _, rec := range records {
						fmt.Fprintf(tw, "%s\t%s\n", rec.ID, history.FormatLabel(rec, time.Local))
					}
					return tw.Flush()
				},
			},
			{
				Name:      "show",
				Usage:     "print one stored generation as JSON",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("history show takes exactly one ID", 2)
					}
					rt, err := s.setup(c, true)
					if err != nil {
						return err
					}
					defer rt.close()

					rec, ok := rt.history.Store.Get(c.Context, c.Args().First())
					if !ok {
						return cli.Exit(fmt.Sprintf("no history entry %q", c.Args().First()), 1)
					}
					data, err := json.Marshal(rec)
					if err != nil {
						return fmt.Errorf("failed to encode record: %w", err)
					}
					return printJSON(c.App.Writer, data)
				},
			},
			{
				Name:  "clear",
				Usage: "remove every stored generation",
				Action: func(c *cli.Context) error {
					rt, err := s.setup(c, true)
					if err != nil {
						return err
					}
					defer rt.close()

					rt.history.Store.Clear(c.Context)
					fmt.Fprintln(c.App.Writer, "History cleared.")
					return nil
				},
			},
		},
	}
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list the example requests usable with generate --preset",
		Action: func(c *cli.Context) error {
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			for _, key := range designs.PresetKeys() {
				p, _ := designs.LookupPreset(key)
				fmt.Fprintf(tw, "%s\t%s\t%s/%s\n", p.Key, p.Name, p.Request.Type, p.Request.Subtype)
			}
			return tw.Flush()
		},
	}
}

func typesCommand() *cli.Command {
	return &cli.Command{
		Name:      "types",
		Usage:     "list design types, or the subtypes of TYPE",
		ArgsUsage: "[TYPE]",
		Action: func(c *cli.Context) error {
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			if c.NArg() == 0 {
				for _, t := range designs.Catalog {
					fmt.Fprintf(tw, "%s\t%s\t%d subtypes\n", t.Key, t.Label, len(t.Subtypes))
				}
				return tw.Flush()
			}

			t, ok := designs.FindType(c.Args().First())
			if !ok {
				keys := make([]string, 0, len(designs.Catalog))
				for _, t := range designs.Catalog {
					keys = append(keys, t.Key)
				}
				sort.Strings(keys)
				return cli.Exit(fmt.Sprintf("unknown type %q, expected one of %v", c.Args().First(), keys), 2)
			}
			for _, s := range t.Subtypes {
				size := "custom"
				if s.Width > 0 && s.Height > 0 {
					size = fmt.Sprintf("%d×%d", s.Width, s.Height)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, s.Label, size)
			}
			return tw.Flush()
		},
	}
}

func printJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
