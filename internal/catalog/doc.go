// Package catalog answers the listing queries: adapters ready for conversion,
// converted GGUF files, and models registered in the serving runtime. The
// shared saves directory is the only store; every query is a directory scan.
package catalog
