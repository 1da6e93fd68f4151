// Package mcpserver exposes chunk validation over the Model Context
// Protocol so agent tooling can lint documents directly.
//
// Three tools are registered on a stdio server:
//
//   - validate_document: run the full validation pipeline over a file or
//     directory of markdown documents and return the reports as JSON
//   - diagnose_chunks: validate one document at a chosen detail level
//     (diagnose, suggest, or fix)
//   - export_chunks: shape validated chunks into retrieval records and
//     write them to a JSON file or SQLite database
//
// Usage:
//
//	srv, err := mcpserver.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
package mcpserver
