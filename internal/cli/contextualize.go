package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/chunklint/internal/contextualizer"
)

var (
	contextualizeOutput string
	contextualizeDryRun bool
)

var contextualizeCmd = &cobra.Command{
	Use:   "contextualize [file]",
	Short: "Generate retrieval contexts for chunks with an LLM",
	Long: `Generate a short contextual description for every chunk in a document
and insert it as an HTML comment at the top of the chunk body. The
rewritten document is saved alongside the input as
<name>.contextualized.md unless --output is given.

Provider selection follows CHUNKLINT_CONTEXT_PROVIDER, then available
API keys (ANTHROPIC_API_KEY, OPENAI_API_KEY). Use --dry-run to preview
without API calls.`,
	Args: cobra.ExactArgs(1),
	RunE: runContextualize,
}

func init() {
	contextualizeCmd.Flags().StringVarP(&contextualizeOutput, "output", "o", "", "output file (default: <input>.contextualized.md)")
	contextualizeCmd.Flags().BoolVar(&contextualizeDryRun, "dry-run", false, "preview without making API calls")
	rootCmd.AddCommand(contextualizeCmd)
}

func runContextualize(cmd *cobra.Command, args []string) error {
	var (
		gen contextualizer.Generator
		err error
	)
	if contextualizeDryRun {
		gen, err = contextualizer.NewDryRunProvider()
	} else {
		gen, err = contextualizer.NewFromEnv()
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = gen.Close()
	}()

	logVerbose("provider: %s (model %s)", gen.Provider(), gen.Model())

	outPath, n, err := contextualizer.ContextualizeFile(cmd.Context(), gen, args[0], contextualizeOutput)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d chunk(s)\n", n)
	fmt.Fprintf(out, "Output written to: %s\n", outPath)

	if gen.Provider() != contextualizer.ProviderDryRun {
		usage := gen.Usage()
		fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 50))
		fmt.Fprintln(out, "Token Usage Statistics")
		fmt.Fprintf(out, "%s\n", strings.Repeat("=", 50))
		fmt.Fprintf(out, "Input tokens: %d\n", usage.InputTokens)
		fmt.Fprintf(out, "Output tokens: %d\n", usage.OutputTokens)
		fmt.Fprintf(out, "Cache creation tokens: %d\n", usage.CacheCreationTokens)
		fmt.Fprintf(out, "Cache read tokens: %d\n", usage.CacheReadTokens)
		if savings := usage.CacheSavings(); savings > 0 {
			fmt.Fprintf(out, "Cache savings: %.1f%% of input tokens from cache\n", savings*100)
		}
	}

	return nil
}
