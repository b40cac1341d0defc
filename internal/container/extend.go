package container

import "fmt"

// Extend registers ext to run against key when it is first resolved.
// Extenders run in registration order, each receiving the previous result.
func (c *Container) Extend(key string, ext Extender) error {
	if _, ok := c.instances[key]; ok {
		return &AlreadyResolvedExtensionError{Key: key}
	}
	c.extenders[key] = append(c.extenders[key], ext)
	return nil
}

// ExtendAs is the typed form of Extend: fn receives and returns a T.
func ExtendAs[T any](c *Container, key string, fn func(T, *Container) (T, error)) error {
	return c.Extend(key, func(instance any, c *Container) (any, error) {
		typed, ok := instance.(T)
		if !ok {
			var zero T
			return nil, &TypeMismatchError{Key: key, Want: fmt.Sprintf("%T", &zero)[1:], Got: fmt.Sprintf("%T", instance)}
		}
		return fn(typed, c)
	})
}
