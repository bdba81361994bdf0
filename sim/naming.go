package sim

import (
	"strconv"
	"strings"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention.
//
// A name is a dot-separated hierarchy such as "Mesh.PU[3].Bank[12]". Every
// element must be non-empty, start with a capital letter, and must not
// contain underscores, quotes or dashes. Indices use square brackets.
func NameMustBeValid(name string) {
	for _, elem := range strings.Split(name, ".") {
		if err := elemProblem(elem); err != "" {
			panic("name " + name + " is not valid: " + err)
		}
	}
}

func elemProblem(elem string) string {
	base, indices, hasIndex := strings.Cut(elem, "[")

	if base == "" {
		return "element must not be empty"
	}

	if strings.ContainsAny(base, "_\"'-") {
		return "element must not contain _, \", ' or -"
	}

	if base[0] < 'A' || base[0] > 'Z' {
		return "element must start with a capital letter"
	}

	if !hasIndex {
		return ""
	}

	for _, idx := range strings.Split(indices, "[") {
		if !strings.HasSuffix(idx, "]") {
			return "brackets must match"
		}

		if _, err := strconv.Atoi(strings.TrimSuffix(idx, "]")); err != nil {
			return "index must be an integer"
		}
	}

	return ""
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
