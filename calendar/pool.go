package calendar

// StringPool interns holiday names so per-day storage stays a small integer.
// Id 0 is reserved for "no name".
type StringPool struct {
	ids   map[string]int32
	names []string
}

func NewStringPool() *StringPool {
	return &StringPool{
		ids:   make(map[string]int32),
		names: []string{""},
	}
}

// Intern returns the id for name, assigning the next one on first sight.
func (p *StringPool) Intern(name string) int32 {
	if name == "" {
		return 0
	}
	if id, ok := p.ids[name]; ok {
		return id
	}
	id := int32(len(p.names))
	p.ids[name] = id
	p.names = append(p.names, name)
	return id
}

// Name resolves an id back to its string. Unknown ids resolve to "".
func (p *StringPool) Name(id int32) string {
	if id <= 0 || int(id) >= len(p.names) {
		return ""
	}
	return p.names[id]
}

// Len is the number of interned names, excluding the reserved empty id.
func (p *StringPool) Len() int {
	return len(p.names) - 1
}
