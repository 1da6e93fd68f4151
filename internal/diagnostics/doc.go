// Package diagnostics implements the four retrieval-quality heuristics run
// over the canonical chunk set: semantic similarity, context quality, tag
// overlap, and ID naming.
//
// Each check is a stateless pure function of the chunk records and returns
// its own issue list; Run concatenates them in a fixed category order so
// reports are reproducible. The heuristics are advisory: they emit warning
// and info severities only, never errors, with the single exception of an
// empty context (an empty context produces a useless retrieval entry).
//
// Semantic similarity uses Jaccard overlap of lowercase word tokens as a
// deliberately cheap lexical proxy for embedding similarity; the engine
// never computes real embeddings.
package diagnostics
