package markup

// Attributes is an insertion-ordered attribute map. The zero value is ready
// to use.
type Attributes struct {
	names  []string
	values map[string]any
}

// Attr is a single name/value pair.
type Attr struct {
	Name  string
	Value any
}

// Len returns the number of attributes.
func (a *Attributes) Len() int { return len(a.names) }

// Get returns the value for name.
func (a *Attributes) Get(name string) (any, bool) {
	if a.values == nil {
		return nil, false
	}
	v, ok := a.values[name]
	return v, ok
}

// Has reports whether name is present with a non-nil value.
func (a *Attributes) Has(name string) bool {
	v, ok := a.Get(name)
	return ok && v != nil
}

// Set writes name. A new name is appended; an existing one keeps its slot.
func (a *Attributes) Set(name string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

// Delete removes name.
func (a *Attributes) Delete(name string) {
	if _, ok := a.values[name]; !ok {
		return
	}
	delete(a.values, name)
	for i, n := range a.names {
		if n == name {
			a.names = append(a.names[:i:i], a.names[i+1:]...)
			break
		}
	}
}

// Each calls fn for every attribute in insertion order.
func (a *Attributes) Each(fn func(name string, value any)) {
	for _, n := range a.names {
		fn(n, a.values[n])
	}
}

// List returns the attributes in insertion order.
func (a *Attributes) List() []Attr {
	out := make([]Attr, 0, len(a.names))
	for _, n := range a.names {
		out = append(out, Attr{Name: n, Value: a.values[n]})
	}
	return out
}

// Clone returns an independent copy.
func (a *Attributes) Clone() Attributes {
	c := Attributes{
		names:  make([]string, len(a.names)),
		values: make(map[string]any, len(a.values)),
	}
	copy(c.names, a.names)
	for k, v := range a.values {
		c.values[k] = v
	}
	return c
}

// Prepend writes name as the first attribute, replacing any existing value.
func (a *Attributes) Prepend(name string, value any) {
	a.Delete(name)
	if a.values == nil {
		a.values = make(map[string]any)
	}
	a.names = append([]string{name}, a.names...)
	a.values[name] = value
}
