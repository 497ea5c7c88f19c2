package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrSchema is matched by every *SchemaError via errors.Is.
var ErrSchema = errors.New("deck schema violation")

// SchemaError reports a candidate document that cannot be turned into a Deck.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "invalid deck: " + e.Reason
	}
	return fmt.Sprintf("invalid deck: %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

var validate = validator.New()

// newID generates slide ids; replaced in tests.
var newID = func() string {
	return "slide-" + uuid.NewString()
}

// Validate parses raw JSON and normalizes it into a Deck.
func Validate(raw []byte) (*Deck, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return ValidateValue(v)
}

// ValidateValue normalizes an already-decoded JSON value into a Deck.
// The input is never modified.
//
// Slides with an unknown type become content slides, payload fields that do
// not belong to the declared type are dropped, and missing or duplicate ids
// are replaced. Entries that are not objects are skipped. Chart series and table rows are truncated or padded to the
// label and header counts.
func ValidateValue(v any) (*Deck, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaError{Reason: "document is not an object"}
	}

	rawSlides, present := obj["slides"]
	if !present || rawSlides == nil {
		return nil, &SchemaError{Path: "slides", Reason: "missing"}
	}
	items, ok := rawSlides.([]any)
	if !ok {
		return nil, &SchemaError{Path: "slides", Reason: "not an array"}
	}
	if len(items) == 0 {
		return nil, &SchemaError{Path: "slides", Reason: "empty"}
	}

	d := &Deck{
		Topic:  str(obj["topic"]),
		Title:  str(obj["title"]),
		Author: str(obj["author"]),
		Slides: make([]Slide, 0, len(items)),
	}
	d.Style, _ = ParseStyle(str(obj["style"]))

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		s, ok := normalizeSlide(item)
		if !ok {
			continue
		}
		if s.ID == "" || seen[s.ID] {
			s.ID = newID()
		}
		seen[s.ID] = true
		d.Slides = append(d.Slides, s)
	}
	if len(d.Slides) == 0 {
		return nil, &SchemaError{Path: "slides", Reason: "no slide is an object"}
	}

	if err := validate.Struct(d); err != nil {
		return nil, formatValidationError(err)
	}
	return d, nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &SchemaError{Reason: err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Namespace(), e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
		}
	}
	return &SchemaError{Reason: strings.Join(msgs, "; ")}
}

// normalizeSlide reports false for entries that are not JSON objects.
func normalizeSlide(v any) (Slide, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Slide{}, false
	}

	kind, _ := parseKind(str(obj["type"]))
	s := Slide{
		ID:                     strings.TrimSpace(str(obj["id"])),
		Type:                   kind,
		Title:                  str(obj["title"]),
		BackgroundImageKeyword: str(obj["backgroundImageKeyword"]),
	}

	switch Layout(strings.ToLower(str(obj["layout"]))) {
	case LayoutLeft, LayoutRight, LayoutCenter, LayoutSplit:
		s.Layout = Layout(strings.ToLower(str(obj["layout"])))
	}

	switch kind {
	case KindTitle:
		s.Subtitle = str(obj["subtitle"])
	case KindContent:
		s.BulletPoints = strList(obj["bulletPoints"])
	case KindChart:
		s.ChartData = normalizeChart(obj["chartData"])
	case KindTable:
		s.TableData = normalizeTable(obj["tableData"])
	case KindProcess:
		s.ProcessSteps = normalizeSteps(obj["processSteps"])
	}
	return s, true
}

func normalizeChart(v any) *ChartData {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	cd := &ChartData{Kind: ChartBar}
	switch ChartKind(strings.ToLower(str(first(obj, "type", "kind")))) {
	case ChartLine:
		cd.Kind = ChartLine
	case ChartPie:
		cd.Kind = ChartPie
	}

	cd.CategoryLabels = strList(first(obj, "labels", "categoryLabels"))
	if cd.CategoryLabels == nil {
		cd.CategoryLabels = []string{}
	}

	rawSeries, _ := first(obj, "datasets", "series").([]any)
	for _, rs := range rawSeries {
		so, ok := rs.(map[string]any)
		if !ok {
			continue
		}
		ser := Series{
			Label:  str(so["label"]),
			Values: make([]float64, len(cd.CategoryLabels)),
		}
		vals, _ := first(so, "data", "values").([]any)
		for i := 0; i < len(vals) && i < len(ser.Values); i++ {
			ser.Values[i] = num(vals[i])
		}
		cd.Series = append(cd.Series, ser)
	}
	return cd
}

func normalizeTable(v any) *TableData {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	td := &TableData{Headers: strList(obj["headers"])}
	if td.Headers == nil {
		td.Headers = []string{}
	}
	rows, _ := obj["rows"].([]any)
	td.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		cells, ok := r.([]any)
		if !ok {
			continue
		}
		row := make([]string, len(td.Headers))
		for i := 0; i < len(cells) && i < len(row); i++ {
			row[i] = str(cells[i])
		}
		td.Rows = append(td.Rows, row)
	}
	return td
}

func normalizeSteps(v any) []ProcessStep {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	steps := make([]ProcessStep, 0, len(items))
	for _, it := range items {
		switch step := it.(type) {
		case map[string]any:
			steps = append(steps, ProcessStep{Title: str(step["title"]), Description: str(step["description"])})
		case string:
			steps = append(steps, ProcessStep{Title: step})
		}
	}
	return steps
}

// first returns the value of the first key present in obj.
func first(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	return nil
}

// str renders JSON scalars as text; objects, arrays and null become "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// strList keeps scalar entries of a JSON array as strings.
func strList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch it.(type) {
		case string, float64, bool, json.Number:
			out = append(out, str(it))
		}
	}
	return out
}

func num(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
