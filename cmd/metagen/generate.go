package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/user/seo-meta-service/internal/config"
	"github.com/user/seo-meta-service/internal/console"
	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/lifecycle"
)

var errGenerationFailed = errors.New("generation failed")

type generateOptions struct {
	url         string
	content     string
	contentFile string
	focus       string
	asJSON      bool
	copyKey     string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate meta tags for one page and print them",
		Example: `  metagen generate --url https://shop.example.com/espresso
  metagen generate --content-file page.txt --focus "Spring sale, 20% off" --copy title1
  metagen generate --url https://example.com --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "page URL to research")
	f.StringVar(&opts.content, "content", "", "description of the page content")
	f.StringVar(&opts.contentFile, "content-file", "", "read the page content description from a file ('-' for stdin)")
	f.StringVar(&opts.focus, "focus", "", "marketing focus, offer or campaign angle")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	f.StringVar(&opts.copyKey, "copy", "", "copy one field to the clipboard: "+strings.Join(console.CopyKeys, ", "))
	f.String("fetch", "", "page fetch mode: off, http, browser (overrides PAGE_FETCH_MODE)")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	in, err := opts.inputs(cmd.InOrStdin())
	if err != nil {
		return err
	}
	if !in.Ready() {
		return errors.New("provide --url or more than 20 characters of --content / --content-file")
	}
	if opts.copyKey != "" {
		if _, err := console.CopyText(&domain.SeoResponse{}, opts.copyKey); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Keep info logs from drawing over the spinner unless asked for
	quiet := func(cfg *config.Config) {
		if !cmd.Flags().Changed("log-level") && os.Getenv("LOG_LEVEL") == "" {
			cfg.LogLevel = "warn"
		}
	}
	a, err := newApp(ctx, cmd, prometheus.NewRegistry(), quiet)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := lifecycle.NewController(a.pipeline, a.logger)
	defer ctrl.Close()

	states, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()
	ctrl.Submit(in)

	state, err := console.Watch(ctx, states, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if state.Kind == domain.StateError {
		fmt.Fprint(cmd.ErrOrStderr(), console.RenderError(state.Message))
		return errGenerationFailed
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			*domain.SeoResponse
			Sources []string `json:"sources"`
		}{state.Result, state.Sources}); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, console.RenderResult(state.Result, state.Sources))
	}

	if opts.copyKey != "" {
		if _, err := console.Copy(state.Result, opts.copyKey); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s to the clipboard.\n", opts.copyKey)
	}
	return nil
}

// inputs assembles the submission. --content wins over --content-file.
func (o generateOptions) inputs(stdin io.Reader) (domain.AnalysisInputs, error) {
	content := o.content
	if content == "" && o.contentFile != "" {
		var (
			data []byte
			err  error
		)
		if o.contentFile == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(o.contentFile)
		}
		if err != nil {
			return domain.AnalysisInputs{}, fmt.Errorf("read content file: %w", err)
		}
		content = string(data)
	}
	return domain.AnalysisInputs{
		URL:               o.url,
		TargetPageContent: content,
		MarketingFocus:    o.focus,
	}, nil
}
