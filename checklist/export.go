package checklist

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
)

// RenderText renders the payload as a human-readable indented text block.
// Empty strings, zero numbers and false booleans are left out; slices are
// rendered as bullet lists. Section and field names are derived from the
// payload's json tags.
func RenderText(payload *Payload) string {
	var sb strings.Builder
	renderValue(&sb, reflect.ValueOf(payload).Elem(), 0)
	return sb.String()
}

// Export renders the payload wrapped in the export header and footer.
func Export(payload *Payload, now time.Time) string {
	return fmt.Sprintf(`PERSONVERNSJEKKLISTE - EKSPORT
Generert: %s

==================================================

%s
==================================================
Eksportert fra Personvern AI-assistent
`, now.Format("02.01.2006 15:04:05"), RenderText(payload))
}

// WriteTextFile writes the export to path.
func WriteTextFile(payload *Payload, path string, now time.Time) error {
	if err := os.WriteFile(path, []byte(Export(payload, now)), 0644); err != nil {
		return errors.Wrap(err, "writing export file")
	}
	return nil
}

func renderValue(sb *strings.Builder, value reflect.Value, indent int) {
	spaces := strings.Repeat("  ", indent)
	valueType := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		label := fieldLabel(valueType.Field(i))

		switch field.Kind() {
		case reflect.Slice:
			if field.Len() == 0 {
				continue
			}
			fmt.Fprintf(sb, "%s%s:\n", spaces, label)
			for j := 0; j < field.Len(); j++ {
				fmt.Fprintf(sb, "%s  - %v\n", spaces, field.Index(j).Interface())
			}
		case reflect.Struct:
			fmt.Fprintf(sb, "%s%s:\n", spaces, label)
			renderValue(sb, field, indent+1)
		case reflect.String:
			if field.String() == "" {
				continue
			}
			fmt.Fprintf(sb, "%s%s: %s\n", spaces, label, field.String())
		case reflect.Int:
			if field.Int() == 0 {
				continue
			}
			fmt.Fprintf(sb, "%s%s: %d\n", spaces, label, field.Int())
		case reflect.Bool:
			if !field.Bool() {
				continue
			}
			fmt.Fprintf(sb, "%s%s: true\n", spaces, label)
		}
	}
}

// fieldLabel turns a camelCase json tag into a readable label,
// e.g. "projectSummary" becomes "Project summary".
func fieldLabel(field reflect.StructField) string {
	tag := strings.Split(field.Tag.Get("json"), ",")[0]
	if tag == "" {
		tag = field.Name
	}

	var words strings.Builder
	for i, r := range tag {
		if unicode.IsUpper(r) && i > 0 {
			words.WriteRune(' ')
		}
		words.WriteRune(unicode.ToLower(r))
	}
	label := words.String()
	return strings.ToUpper(label[:1]) + label[1:]
}
