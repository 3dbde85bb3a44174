package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/prerender/internal/config"
	"github.com/vango-dev/prerender/internal/errors"
	"github.com/vango-dev/prerender/pkg/engine"
	"github.com/vango-dev/prerender/pkg/render"
	"github.com/vango-dev/prerender/pkg/snapshot"
	"github.com/vango-dev/prerender/pkg/vdom"
)

type renderOptions struct {
	static   bool
	document bool
	output   string
	maxWait  time.Duration
	snapshot string
}

func renderCmd(configPath *string) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a JSON tree document to HTML",
		Long: `Render a JSON tree document to HTML.

The document is read from file, or from stdin when file is "-" or
omitted. Nodes are strings, numbers, arrays or objects:

  {"type": "div", "props": {"className": "app"}, "children": ["Hello"]}
  {"type": "#suspense", "maxDuration": 100, "fallback": "Loading...", "children": []}

Examples:
  prerender render page.json
  prerender render --static -o page.html page.json
  prerender render --document --snapshot=home page.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			return runRender(cmd, *configPath, name, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.static, "static", false, "Render static markup without hydration markers or cache data")
	cmd.Flags().BoolVar(&opts.document, "document", false, "Wrap the markup in a complete HTML document")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().DurationVar(&opts.maxWait, "max-wait", 0, "Maximum wait for suspended data (default from prerender.json)")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Also store the render under this snapshot key")

	return cmd
}

func runRender(cmd *cobra.Command, configPath, name string, opts renderOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())

	data, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return errors.New(errors.CodeInvalidArgument).Wrap(err)
	}
	tree, err := decodeTree(name, data)
	if err != nil {
		return err
	}

	maxWait := cfg.MaxWait()
	if opts.maxWait > 0 {
		maxWait = opts.maxWait
	}
	static := opts.static || cfg.Render.Static
	renderOpts := []render.Option{
		render.WithMaxWait(maxWait),
		render.WithLogger(logger.With("component", "render")),
		render.WithDevMode(cfg.Render.Dev),
		render.WithEmbed(embedOptions(cfg)),
	}
	if fb := cfg.FrameBudget(); fb > 0 {
		renderOpts = append(renderOpts, render.WithFrameBudget(fb))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var res *render.Result
	if static {
		res, err = render.RenderToStaticMarkup(ctx, tree, renderOpts...)
	} else {
		res, err = render.RenderToString(ctx, tree, renderOpts...)
	}
	if err != nil {
		return renderError(err)
	}

	if opts.snapshot != "" {
		if err := storeSnapshot(ctx, cfg, opts.snapshot, res, static); err != nil {
			return err
		}
		success(cmd.ErrOrStderr(), "Stored snapshot %s", opts.snapshot)
	}

	body := res.MarkupWithCacheData
	if static {
		body = res.Markup
	}
	if opts.document {
		page := render.Page{Body: body, Title: cfg.Server.Title}
		if cfg.Server.ClientScript != "" {
			page.Scripts = []render.ScriptTag{{Src: cfg.Server.ClientScript}}
		}
		if body, err = render.DocumentString(page); err != nil {
			return renderError(err)
		}
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, body)
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// decodeTree decodes a tree document, locating JSON syntax errors in the
// input.
func decodeTree(name string, data []byte) (*vdom.VNode, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		ce := errors.New(errors.CodeInvalidTree).Wrap(err)
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			ce.WithOffset(name, data, syntaxErr.Offset)
		}
		return nil, ce
	}
	tree, err := vdom.DecodeJSON(data)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidTree).Wrap(err)
	}
	return tree, nil
}

func renderError(err error) error {
	if stderrors.Is(err, engine.ErrUnresolvedSuspension) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.New(errors.CodeRenderTimeout).Wrap(err)
	}
	return errors.New(errors.CodeRenderFailed).Wrap(err)
}

func storeSnapshot(ctx context.Context, cfg *config.Config, key string, res *render.Result, static bool) error {
	if err := snapshot.ValidateKey(key); err != nil {
		return errors.New(errors.CodeInvalidArgument).Wrap(err)
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	snap, err := snapshot.FromResult(key, res, static)
	if err != nil {
		return errors.New(errors.CodeSnapshotFailed).Wrap(err)
	}
	if err := store.Put(ctx, snap); err != nil {
		return errors.New(errors.CodeSnapshotFailed).Wrap(err)
	}
	return nil
}

func writeOutput(stdout io.Writer, path, body string) error {
	if path == "" {
		_, err := io.WriteString(stdout, body)
		if err == nil && len(body) > 0 && body[len(body)-1] != '\n' {
			_, err = fmt.Fprintln(stdout)
		}
		return err
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return errors.New(errors.CodeInvalidArgument).Wrap(err)
	}
	return nil
}
