// Package descriptor models a parsed project and validates it.
//
// The Builder assembles parser output into a Project and hands it to the
// Analyzer, which runs the validator engine over every package and element.
// The engine is configured by an InitializerChain. DefaultValidators is the
// first initializer; plugins and embedders may add more, and later ones
// override rules registered earlier. The chain runs once, before the first
// command executes.
package descriptor
