package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "metagen",
		Short: "Generate SEO meta titles and descriptions with Gemini",
		Long: `metagen writes two meta title/description options for a web page:
one marketing-focused, one following SEO best practices.

Give it a URL, a description of the page content, or both. With a URL the
model researches the page and its root domain through Google Search.

Configuration comes from .env, the environment (GEMINI_API_KEY, GEMINI_MODEL,
SERVER_PORT, LOG_LEVEL, LOG_FORMAT, PAGE_FETCH_MODE, ...) and the flags below.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	root.PersistentFlags().String("model", "", "Gemini model (overrides GEMINI_MODEL)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: json or console")

	root.AddCommand(newServeCmd(), newGenerateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Failed generations were already rendered
		if !errors.Is(err, errGenerationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
