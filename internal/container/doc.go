// Package container provides the service container docweaver is composed
// from.
//
// # Definitions
//
// A key resolves either to a static value or to a factory with declared
// requirement keys:
//
//	c := container.New()
//	_ = c.Set("app.name", "docweaver")
//	_ = c.Singleton("translator", func(c *container.Container) (any, error) {
//	    return translator.New(), nil
//	}, "config")
//
// Factories run lazily, at most once, on the first Get of their key. The
// declared requirements are resolved first, in order. Requirement chains
// are checked for cycles with a visiting stack.
//
// # Providers
//
// A ServiceProvider groups the definitions of one subsystem. The
// ProviderRegistry calls Register as soon as a provider is added, so a
// provider may rely on definitions contributed by earlier providers being
// present. It must not rely on them being built.
//
// # Extensions
//
// Extend queues a transform against a key. All transforms for a key run
// once, in registration order, when the key is first resolved; the result
// is cached. Extending a key after it has been resolved fails with
// AlreadyResolvedExtensionError, so the final shape of a shared object
// never depends on when someone happened to resolve it.
//
//	_ = container.ExtendAs(c, "console", func(root *cobra.Command, _ *container.Container) (*cobra.Command, error) {
//	    root.PersistentFlags().StringP("config", "c", "", "Location of a custom configuration file")
//	    return root, nil
//	})
//
// # Errors
//
// MissingDefinitionError, CircularDependencyError,
// ProviderContributionError and AlreadyResolvedExtensionError are wiring
// defects and are fatal during bootstrap; IsWiringError groups them.
package container
