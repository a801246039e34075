package props

// Each assigns key to one container per item, built by fn.
func Each[T any](s Scope, key string, items []T, fn func(s Scope, item T) error) error {
	return s.Assign(key, Collection(items, fn))
}

// EachPartial assigns key to one container per item, each built by the named
// partial with the item as its locals. The partial is looked up immediately,
// so an unknown name fails the build even if key is never evaluated.
func EachPartial[T any](s Scope, key, name string, items []T) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	return Each(s, key, items, func(c Scope, item T) error {
		if err := p(c, item); err != nil {
			return &PartialError{Name: name, Err: err}
		}
		return nil
	})
}
