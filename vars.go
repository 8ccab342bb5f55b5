package main

// varTable maps variable names to values, remembering the order in which
// names were first defined.
type varTable struct {
	names  []string
	index  map[string]int
	values []Value
}

func (vt *varTable) len() int { return len(vt.names) }

func (vt *varTable) lookup(name string) (Value, bool) {
	if i, defined := vt.index[name]; defined {
		return vt.values[i], true
	}
	return nil, false
}

func (vt *varTable) define(name string, value Value) {
	if i, defined := vt.index[name]; defined {
		vt.values[i] = value
		return
	}
	if vt.index == nil {
		vt.index = make(map[string]int)
	}
	vt.index[name] = len(vt.names)
	vt.names = append(vt.names, name)
	vt.values = append(vt.values, value)
}

func (vt *varTable) each(f func(name string, value Value)) {
	for i, name := range vt.names {
		f(name, vt.values[i])
	}
}
