package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strings"

	"github.com/example/spraywall/internal/spray"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads a theme definition from an io.Reader.
// The format is one "Key: color" pair per line, colors as names or #RRGGBB[AA].
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := Set(t, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns one field by case-insensitive name. Unknown keys are ignored.
func Set(t *Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	field, ok := lookup(t, key)
	if !ok {
		return nil // forward compatible
	}
	col, err := spray.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	field.Set(reflect.ValueOf(col))
	return nil
}

// Field is one named color of a theme.
type Field struct {
	Key   string
	Color color.RGBA
}

// Fields returns the color fields in declaration order, for writing a theme back out.
func Fields(t *Theme) []Field {
	val := reflect.ValueOf(t).Elem()
	var out []Field
	for i := 0; i < val.NumField(); i++ {
		if val.Field(i).Type() != rgbaType {
			continue
		}
		out = append(out, Field{Key: val.Type().Field(i).Name, Color: val.Field(i).Interface().(color.RGBA)})
	}
	return out
}

func lookup(t *Theme, key string) (reflect.Value, bool) {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if strings.EqualFold(f.Name, key) && f.Type == rgbaType {
			return val.Field(i), true
		}
	}
	return reflect.Value{}, false
}
