package render

import (
	"reflect"
	"strings"
)

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return f.Name
	}

	return name
}
