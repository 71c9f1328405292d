package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// LocalizedText maps a language code (ja, en, zh) to a translated string.
// It is stored verbatim as a JSON TEXT column.
type LocalizedText map[string]string

// Resolve returns the best translation for the requested language using the
// fallback chain: requested -> en -> ja -> first available (by sorted key).
func (l LocalizedText) Resolve(lang string) string {
	if len(l) == 0 {
		return ""
	}
	if v, ok := l[lang]; ok && v != "" {
		return v
	}
	if v, ok := l["en"]; ok && v != "" {
		return v
	}
	if v, ok := l["ja"]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if l[k] != "" {
			return l[k]
		}
	}
	return ""
}

// UnmarshalJSON accepts either a localized object or a bare string. AI
// replies use both shapes; a bare string is duplicated into ja/en/zh.
func (l *LocalizedText) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		*l = m
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("localized text must be an object or a string")
	}
	*l = LocalizedText{"ja": s, "en": s, "zh": s}
	return nil
}

// Value implements driver.Valuer so sqlx can write the map as JSON text.
func (l LocalizedText) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON text columns.
func (l *LocalizedText) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into LocalizedText", src)
	}
}

// StringList is a JSON-encoded string array column (trash type tags).
type StringList []string

// Contains reports whether the list includes the given tag.
func (s StringList) Contains(tag string) bool {
	for _, v := range s {
		if v == tag {
			return true
		}
	}
	return false
}

// Intersects reports whether the list shares at least one tag with other.
func (s StringList) Intersects(other []string) bool {
	for _, v := range other {
		if s.Contains(v) {
			return true
		}
	}
	return false
}

// Union returns the sorted set union of the list and other.
func (s StringList) Union(other []string) StringList {
	seen := make(map[string]bool, len(s)+len(other))
	for _, v := range s {
		seen[v] = true
	}
	for _, v := range other {
		seen[v] = true
	}
	out := make(StringList, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}
