package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// wrapperKeys are tried in order when the payload is an object instead of a list.
var wrapperKeys = []string{
	"items", "data", "list", "results",
	"subjects", "frameworks", "grades", "major_parts", "sections", "standards",
	"strands", "sub_units", "subUnits", "substandards", "sub_standards", "lessons",
}

// arrayOf coerces the payload root into its list of elements.
func arrayOf(root gjson.Result) ([]gjson.Result, bool) {
	if root.IsArray() {
		return root.Array(), true
	}
	if !root.IsObject() {
		return nil, false
	}
	for _, k := range wrapperKeys {
		if v := root.Get(k); v.IsArray() {
			return v.Array(), true
		}
	}
	var found gjson.Result
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsArray() {
			return true
		}
		first := v.Get("0")
		if first.IsObject() && (first.Get("name").Exists() || first.Get("title").Exists()) {
			found = v
			return false
		}
		return true
	})
	if found.Exists() {
		return found.Array(), true
	}
	return nil, false
}

// entries keeps the object and string elements of a list. Numbers, bools and
// nested arrays never describe an item.
func entries(els []gjson.Result) []gjson.Result {
	out := make([]gjson.Result, 0, len(els))
	for _, el := range els {
		if el.IsObject() || el.Type == gjson.String {
			out = append(out, el)
		}
	}
	return out
}

// scalarList reports whether root coerces to a non-empty list without a
// single object or string entry, like a bracketed "[3]" in prose.
func scalarList(root gjson.Result) bool {
	els, ok := arrayOf(root)
	return ok && len(els) > 0 && len(entries(els)) == 0
}

// str returns the first non-empty value among keys. Bare string elements are
// returned as-is for name-like lookups.
func str(el gjson.Result, keys ...string) string {
	for _, k := range keys {
		v := el.Get(k)
		if !v.Exists() {
			continue
		}
		var s string
		if v.IsArray() {
			s = strings.Join(strList(el, k), ", ")
		} else {
			s = strings.TrimSpace(v.String())
		}
		if s != "" {
			return s
		}
	}
	return ""
}

func intOf(el gjson.Result, keys ...string) int {
	for _, k := range keys {
		v := el.Get(k)
		if !v.Exists() {
			continue
		}
		if n := int(v.Int()); n != 0 {
			return n
		}
	}
	return 0
}

// strList reads a string array, accepting a comma separated string too.
func strList(el gjson.Result, keys ...string) []string {
	for _, k := range keys {
		v := el.Get(k)
		if !v.Exists() {
			continue
		}
		var out []string
		if v.IsArray() {
			for _, e := range v.Array() {
				if s := strings.TrimSpace(e.String()); s != "" {
					out = append(out, s)
				}
			}
		} else {
			for _, part := range strings.Split(v.String(), ",") {
				if s := strings.TrimSpace(part); s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// nameOf is title, then name, then a bare string element.
func nameOf(el gjson.Result) string {
	if el.Type == gjson.String {
		return strings.TrimSpace(el.String())
	}
	return str(el, "title", "name")
}
