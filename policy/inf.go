package policy

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	SectionUnicode         = "Unicode"
	SectionVersion         = "Version"
	SectionPrivilegeRights = "Privilege Rights"

	ServiceLogonRight = "SeServiceLogonRight"
)

// Template is a parsed security template (the INF dialect secedit reads and
// writes). Sections and keys keep their file order. Lines that are not
// key/value pairs are carried through untouched.
type Template struct {
	sections []*section
}

type section struct {
	name  string
	lines []*line
}

type line struct {
	key   string
	value string
	raw   string
	dirty bool
}

func (l *line) values() []string {
	return splitValues(l.value)
}

func (l *line) setValues(values []string) {
	l.value = strings.Join(values, ",")
	l.dirty = true
}

// Parse reads a template. Text before the first section header is kept in an
// unnamed leading section. A key repeated within a section is merged into its
// first occurrence.
func Parse(r io.Reader) (*Template, error) {
	t := &Template{}
	cur := &section{}
	t.sections = append(t.sections, cur)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		raw := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(raw)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			if existing := t.section(name); existing != nil {
				cur = existing
			} else {
				cur = &section{name: name}
				t.sections = append(t.sections, cur)
			}
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok || trimmed == "" || strings.HasPrefix(trimmed, ";") {
			cur.lines = append(cur.lines, &line{raw: raw})
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			cur.lines = append(cur.lines, &line{raw: raw})
			continue
		}

		if prev := cur.find(key); prev != nil {
			prev.setValues(union(prev.values(), splitValues(value)))
			continue
		}
		cur.lines = append(cur.lines, &line{key: key, value: value, raw: raw})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return t, nil
}

func (t *Template) section(name string) *section {
	for _, s := range t.sections {
		if s.name != "" && strings.EqualFold(s.name, name) {
			return s
		}
	}
	return nil
}

func (t *Template) ensureSection(name string) *section {
	if s := t.section(name); s != nil {
		return s
	}
	s := &section{name: name}
	t.sections = append(t.sections, s)
	return s
}

func (s *section) find(key string) *line {
	for _, l := range s.lines {
		if l.key != "" && strings.EqualFold(l.key, key) {
			return l
		}
	}
	return nil
}

// Sections returns the section names in file order.
func (t *Template) Sections() []string {
	var names []string
	for _, s := range t.sections {
		if s.name != "" {
			names = append(names, s.name)
		}
	}
	return names
}

// Keys returns the keys of a section in file order.
func (t *Template) Keys(sectionName string) []string {
	s := t.section(sectionName)
	if s == nil {
		return nil
	}
	var keys []string
	for _, l := range s.lines {
		if l.key != "" {
			keys = append(keys, l.key)
		}
	}
	return keys
}

// Value returns the raw value text of a key.
func (t *Template) Value(sectionName, key string) (string, bool) {
	s := t.section(sectionName)
	if s == nil {
		return "", false
	}
	l := s.find(key)
	if l == nil {
		return "", false
	}
	return l.value, true
}

// Values returns the comma separated entries of a key.
func (t *Template) Values(sectionName, key string) []string {
	v, ok := t.Value(sectionName, key)
	if !ok {
		return nil
	}
	return splitValues(v)
}

// Set replaces the value of a key, appending the key (and section) if absent.
func (t *Template) Set(sectionName, key, value string) {
	s := t.ensureSection(sectionName)
	if l := s.find(key); l != nil {
		l.value = value
		l.dirty = true
		return
	}
	s.lines = append(s.lines, &line{key: key, value: value, dirty: true})
}

// Has reports whether the privilege right lists the SID, either in its
// "*S-1-..." form or as one of the given account names.
func (t *Template) Has(right, sid string, names ...string) bool {
	return containsAccount(t.Values(SectionPrivilegeRights, right), sid, names)
}

// Grant adds "*<sid>" to the privilege right unless the SID or one of the
// account names is already listed. It reports whether the template changed.
func (t *Template) Grant(right, sid string, names ...string) bool {
	current := t.Values(SectionPrivilegeRights, right)
	if containsAccount(current, sid, names) {
		return false
	}
	s := t.ensureSection(SectionPrivilegeRights)
	entry := "*" + strings.TrimPrefix(sid, "*")
	if l := s.find(right); l != nil {
		l.setValues(append(current, entry))
		return true
	}
	s.lines = append(s.lines, &line{key: right, value: entry, dirty: true})
	return true
}

// WriteTo serializes the template with CRLF line endings. Untouched lines are
// written back exactly as read.
func (t *Template) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	write := func(s string) error {
		n, err := bw.WriteString(s + "\r\n")
		total += int64(n)
		return err
	}
	for _, s := range t.sections {
		if s.name != "" {
			if err := write("[" + s.name + "]"); err != nil {
				return total, err
			}
		}
		for _, l := range s.lines {
			text := l.raw
			if l.key != "" && (l.dirty || l.raw == "") {
				text = l.key + " = " + l.value
			}
			if err := write(text); err != nil {
				return total, err
			}
		}
	}
	return total, bw.Flush()
}

func (t *Template) String() string {
	var b strings.Builder
	_, _ = t.WriteTo(&b)
	return b.String()
}

// UserRights returns a minimal template carrying only the privilege rights of
// t, suitable for an import restricted to the USER_RIGHTS area.
func UserRights(t *Template) *Template {
	out := &Template{}
	out.Set(SectionUnicode, "Unicode", "yes")
	out.Set(SectionVersion, "signature", `"$CHICAGO$"`)
	out.Set(SectionVersion, "Revision", "1")

	dst := out.ensureSection(SectionPrivilegeRights)
	if src := t.section(SectionPrivilegeRights); src != nil {
		for _, l := range src.lines {
			if l.key == "" {
				continue
			}
			dst.lines = append(dst.lines, &line{key: l.key, value: l.value, dirty: true})
		}
	}
	return out
}

func splitValues(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func union(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, v := range b {
		if !containsFold(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func containsAccount(values []string, sid string, names []string) bool {
	sid = strings.TrimPrefix(sid, "*")
	for _, v := range values {
		bare := strings.TrimPrefix(v, "*")
		if sid != "" && strings.EqualFold(bare, sid) {
			return true
		}
		for _, name := range names {
			if name != "" && strings.EqualFold(bare, name) {
				return true
			}
		}
	}
	return false
}
