/*
Package props builds and evaluates the property tree of an Inertia page.

A page's props are assembled by a BuildFunc that receives a Scope. Assignments made
on the root scope are stored as pending thunks, so an expensive prop is only computed
when the reload being served actually includes it. Nested scopes (blocks, collections,
partials) are built eagerly as part of their parent's value.

Example usage:

	root, err := props.NewBuilder(registry).Build(ctx, func(s props.Scope) error {
		s.Set("title", "Users")

		if err := props.Each(s, "users", users, func(s props.Scope, u User) error {
			s.Set("id", u.ID)
			s.Set("name", u.Name)
			return nil
		}); err != nil {
			return err
		}

		return s.Defer("stats", func(s props.Scope) error {
			s.SetFunc("activity", loadActivity)
			return nil
		})
	})
	if err != nil {
		// construction error (nested annotations, unknown partial...)
	}

	res, err := props.Evaluate(ctx, root, domain.PartialReload("users/index", "activity"))

Annotation blocks (Always, Optional, Defer) tag every key assigned inside them.
They cannot be nested.
*/
package props
