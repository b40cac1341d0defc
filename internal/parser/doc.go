// Package parser turns source files into descriptor files.
//
// Discover selects files from the configured directories, Parse reads them
// concurrently and extracts package, type, function, method, constant and
// variable documentation from Go sources. Parse results are cached by
// content hash in the parser cache directory unless DOCWEAVER_CACHE_ENABLE
// or DOCWEAVER_CACHE_LOAD_COMMENTS switch it off.
//
// Watcher reports changes below the source directories for watch mode.
package parser
