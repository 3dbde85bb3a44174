package markup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StyleDecl is one CSS declaration.
type StyleDecl struct {
	Property string
	Value    any
}

// Style is an ordered style map. Properties use camelCase names
// ("backgroundColor") or custom properties ("--accent").
type Style []StyleDecl

// unitlessProperties are numeric CSS properties that do not take "px".
var unitlessProperties = map[string]bool{
	"animationIterationCount": true,
	"borderImageOutset":       true,
	"borderImageSlice":        true,
	"borderImageWidth":        true,
	"boxFlex":                 true,
	"boxFlexGroup":            true,
	"boxOrdinalGroup":         true,
	"columnCount":             true,
	"columns":                 true,
	"flex":                    true,
	"flexGrow":                true,
	"flexPositive":            true,
	"flexShrink":              true,
	"flexNegative":            true,
	"flexOrder":               true,
	"gridArea":                true,
	"gridRow":                 true,
	"gridRowEnd":              true,
	"gridRowSpan":             true,
	"gridRowStart":            true,
	"gridColumn":              true,
	"gridColumnEnd":           true,
	"gridColumnSpan":          true,
	"gridColumnStart":         true,
	"fontWeight":              true,
	"lineClamp":               true,
	"lineHeight":              true,
	"opacity":                 true,
	"order":                   true,
	"orphans":                 true,
	"tabSize":                 true,
	"widows":                  true,
	"zIndex":                  true,
	"zoom":                    true,

	// SVG
	"fillOpacity":      true,
	"floodOpacity":     true,
	"stopOpacity":      true,
	"strokeDasharray":  true,
	"strokeDashoffset": true,
	"strokeMiterlimit": true,
	"strokeOpacity":    true,
	"strokeWidth":      true,
}

var vendorPrefixes = []string{"Webkit", "ms", "Moz", "O"}

func init() {
	base := make([]string, 0, len(unitlessProperties))
	for prop := range unitlessProperties {
		base = append(base, prop)
	}
	for _, prop := range base {
		for _, prefix := range vendorPrefixes {
			unitlessProperties[prefix+strings.ToUpper(prop[:1])+prop[1:]] = true
		}
	}
}

// IsUnitless reports whether a numeric value for property is written
// without a "px" suffix.
func IsUnitless(property string) bool {
	return unitlessProperties[property]
}

// HyphenateProperty converts a camelCase property name to its CSS form:
// "backgroundColor" -> "background-color", "msTransform" -> "-ms-transform".
func HyphenateProperty(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	out := b.String()
	if strings.HasPrefix(out, "ms-") {
		out = "-" + out
	}
	return out
}

// CSS serializes a style value into an inline style string. It accepts
// Style, map[string]any, map[string]string and plain strings. Map keys are
// sorted so output is deterministic. An empty result means the style
// attribute should be omitted.
func CSS(style any) (string, error) {
	switch s := style.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case Style:
		return cssDecls(s)
	case map[string]any:
		return cssDecls(sortedDecls(s))
	case map[string]string:
		m := make(map[string]any, len(s))
		for k, v := range s {
			m[k] = v
		}
		return cssDecls(sortedDecls(m))
	default:
		return "", fmt.Errorf("unsupported style value of type %T", style)
	}
}

func sortedDecls(m map[string]any) Style {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Style, 0, len(keys))
	for _, k := range keys {
		out = append(out, StyleDecl{Property: k, Value: m[k]})
	}
	return out
}

func cssDecls(decls Style) (string, error) {
	var b strings.Builder
	delimiter := ""
	for _, d := range decls {
		if d.Value == nil {
			continue
		}
		custom := strings.HasPrefix(d.Property, "--")
		value, err := styleValue(d.Property, d.Value, custom)
		if err != nil {
			return "", err
		}
		b.WriteString(delimiter)
		if custom {
			b.WriteString(d.Property)
		} else {
			b.WriteString(HyphenateProperty(d.Property))
		}
		b.WriteByte(':')
		b.WriteString(value)
		delimiter = ";"
	}
	return b.String(), nil
}

// styleValue formats a single declaration value.
func styleValue(property string, value any, custom bool) (string, error) {
	switch v := value.(type) {
	case bool:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	}

	num, isNum := formatNumber(value)
	if !isNum {
		return "", fmt.Errorf("unsupported value of type %T for style property %q", value, property)
	}
	if custom || num == "0" || IsUnitless(property) {
		return num, nil
	}
	return num + "px", nil
}

// formatNumber renders numeric kinds the way a browser would print them.
func formatNumber(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}
