// Package export shapes validated chunks into records for downstream
// retrieval systems and writes them to JSON files or a SQLite database.
//
// The JSON output is a flat array of records, one per chunk, suitable
// for vector database ingestion:
//
//	[
//	  {
//	    "id": "skill:python",
//	    "context": "Author's Python skills...",
//	    "content": "## Python\n...",
//	    "tags": ["Python", "Backend"],
//	    "created_at": "2026-02-03",
//	    "version": 1,
//	    "type": "text",
//	    "priority": "high",
//	    "dependencies": [],
//	    "source": "path/to/file.md"
//	  }
//	]
//
// The SQLite backend upserts on (source, chunk id), so re-exporting a
// document replaces its previous records. Two drivers are supported via
// build tags: modernc.org/sqlite (pure Go, the default) and
// github.com/mattn/go-sqlite3 (CGO, build with -tags sqlite_cgo).
package export
