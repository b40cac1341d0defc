// Package environment normalizes process-wide state before docweaver
// builds its service container.
//
// Three adjustments run, in this order:
//
//  1. Timezone: when neither TZ nor /etc/localtime configure a zone, the
//     process default becomes UTC.
//  2. Memory: the Go runtime soft memory limit is lifted, whatever
//     GOMEMLIMIT said. Large projects legitimately need a lot of memory.
//  3. Parse cache: doc comments must survive the parse cache. A cache that
//     stores them gets load_comments switched on; one that drops them is
//     disabled. The legacy cache cannot be reconfigured, so a legacy cache
//     that drops comments is reported as UnsupportedEnvironmentError.
//
// The cache settings live in DOCWEAVER_CACHE_* environment variables (see
// EnvSettings), which is also where the parser reads them from.
//
// Normalize (the package function) runs once per process.
package environment
