package merge

// Resolver supplies the replacement value for a merge field name. It must
// return an error (conventionally *FieldNotFoundError) for names it does not
// recognize; the engine never substitutes a default.
type Resolver interface {
	Resolve(field string) (string, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(field string) (string, error)

func (f ResolverFunc) Resolve(field string) (string, error) { return f(field) }
