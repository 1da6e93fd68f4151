// Package contextualizer generates retrieval contexts for chunks using
// LLM providers, following the contextual retrieval method: the full
// document is sent alongside each chunk and the model answers with a
// short description situating the chunk within the document.
//
// Supported providers:
//   - Anthropic Messages API with prompt caching (the document block is
//     marked ephemeral so repeated chunks from one document reuse it)
//   - OpenAI-compatible chat completions
//   - Dry-run (no API calls, placeholder contexts for previewing)
//
// Provider selection via NewFromEnv():
//  1. CHUNKLINT_CONTEXT_PROVIDER (anthropic, openai, dry-run)
//  2. Auto-detect from ANTHROPIC_API_KEY / OPENAI_API_KEY
//  3. Fall back to dry-run
//
// Example:
//
//	gen, err := contextualizer.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	updated, n, err := contextualizer.RewriteDocument(ctx, gen, content)
//
// Generated contexts are inserted as HTML comments at the top of each
// chunk body:
//
//	<Chunk id="skill:python">
//	<!-- Context: This chunk covers the Python automation skills... -->
//
//	original content
//	</Chunk>
package contextualizer
