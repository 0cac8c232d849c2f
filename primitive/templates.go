package primitive

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"text/template"
)

var (
	templates map[ConversionPair][]string
)

// Vars are the placeholders a conversion template refers to.
type Vars struct {
	Src      string // source value expression
	Dst      string // destination variable, only used by statement templates
	DstType  string // destination type as written in the emitted file
	DstStem  string // prefix for temporaries
	FuncName string // enclosing function, used in error messages
}

// Template returns the conversion template of pair. A single line is a value
// expression; several lines are statements assigning {{.dst}} that may return
// an error from the enclosing function.
func Template(pair ConversionPair) ([]string, bool) {
	lines, ok := templates[pair]
	return slices.Clone(lines), ok
}

// IsStatement reports whether a template assigns {{.dst}} instead of
// producing a value.
func IsStatement(lines []string) bool {
	return len(lines) > 1 || (len(lines) == 1 && strings.HasPrefix(lines[0], "{{.dst}} ="))
}

// Render substitutes vars into the template lines.
func Render(lines []string, vars Vars) ([]string, error) {
	data := map[string]any{
		"src":      vars.Src,
		"dst":      vars.Dst,
		"dstType":  vars.DstType,
		"dstStem":  vars.DstStem,
		"funcName": vars.FuncName,
	}

	res := make([]string, len(lines))

	for i, line := range lines {
		tmpl, err := template.New("line").Option("missingkey=error").Parse(line)
		if err != nil {
			return nil, fmt.Errorf("parse template line %d: %w", i, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render template line %d: %w", i, err)
		}

		res[i] = buf.String()
	}

	return res, nil
}

func init() {
	templates = map[ConversionPair][]string{}

	// CategorySafeNumber
	// CategoryUnsafeNumber
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsNumber() {
			continue
		}

		for toKind := KindEnum(0); int(toKind) < KindTotal; toKind++ {
			if !toKind.IsNumber() {
				continue
			}

			templates[ConversionPair{fromKind, toKind}] = []string{"{{.dstType}}({{.src}})"}
		}
	}

	// CategoryTextNumber
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if numberKind.IsSigned() {
			templates[ConversionPair{numberKind, KindString}] = []string{"{{.dstType}}(strconv.FormatInt(int64({{.src}}), 10))"}
			templates[ConversionPair{KindString, numberKind}] = parseBlock("int64",
				fmt.Sprintf("strconv.ParseInt({{.src}}, 10, %d)", numberKind.Bits()))
		}

		if numberKind.IsUnsigned() {
			templates[ConversionPair{numberKind, KindString}] = []string{"{{.dstType}}(strconv.FormatUint(uint64({{.src}}), 10))"}
			templates[ConversionPair{KindString, numberKind}] = parseBlock("uint64",
				fmt.Sprintf("strconv.ParseUint({{.src}}, 10, %d)", numberKind.Bits()))
		}

		if numberKind.IsFloat() {
			templates[ConversionPair{numberKind, KindString}] = []string{
				fmt.Sprintf("{{.dstType}}(strconv.FormatFloat(float64({{.src}}), 'f', -1, %d))", numberKind.Bits()),
			}
			templates[ConversionPair{KindString, numberKind}] = parseBlock("float64",
				fmt.Sprintf("strconv.ParseFloat({{.src}}, %d)", numberKind.Bits()))
		}
	}

	// CategoryNumericBool
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsInteger() {
			continue
		}

		// 0, 1 - valid, other numbers is error
		templates[ConversionPair{fromKind, KindBool}] = []string{
			"switch {{.src}} {",
			"case 0:",
			"	{{.dst}} = false",
			"case 1:",
			"	{{.dst}} = true",
			"default:",
			`	return fmt.Errorf("{{.funcName}}: only numbers 0 and 1 are allowed for bool, got: %d", {{.src}})`,
			"}",
		}
		templates[ConversionPair{KindBool, fromKind}] = []string{
			"{{.dst}} = 0",
			"if {{.src}} {",
			"	{{.dst}} = 1",
			"}",
		}
	}

	// CategoryTextualBool
	templates[ConversionPair{KindString, KindBool}] = []string{
		"switch strings.ToLower({{.src}}) {",
		`case "true", "yes", "on":`,
		"	{{.dst}} = true",
		`case "false", "no", "off":`,
		"	{{.dst}} = false",
		"default:",
		`	return fmt.Errorf("{{.funcName}}: only strings true/false, yes/no, on/off are allowed for bool, got: %s", {{.src}})`,
		"}",
	}
	templates[ConversionPair{KindBool, KindString}] = []string{"strconv.FormatBool({{.src}})"}

	// CategoryDatetime
	templates[ConversionPair{KindString, KindTime}] = parseBlock("time.Time", "time.Parse(time.RFC3339Nano, {{.src}})")
	templates[ConversionPair{KindTime, KindString}] = []string{"{{.src}}.Format(time.RFC3339Nano)"}

	// CategoryTimestamp
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsInteger() || numberKind == KindUint64 {
			continue
		}

		templates[ConversionPair{numberKind, KindTime}] = []string{"time.Unix(int64({{.src}}), 0)"}
	}

	templates[ConversionPair{KindTime, KindInt64}] = []string{"{{.src}}.Unix()"}

	// CategoryDuration
	templates[ConversionPair{KindString, KindDuration}] = parseBlock("time.Duration", "time.ParseDuration({{.src}})")
	templates[ConversionPair{KindDuration, KindString}] = []string{"{{.src}}.String()"}

	// CategoryNanoseconds
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsInteger() || numberKind == KindUint64 {
			continue
		}

		templates[ConversionPair{numberKind, KindDuration}] = []string{"time.Duration({{.src}})"}
	}

	templates[ConversionPair{KindDuration, KindInt64}] = []string{"{{.src}}.Nanoseconds()"}

	// CategorySeconds
	templates[ConversionPair{KindFloat32, KindDuration}] = []string{"time.Duration(float64({{.src}}) * float64(time.Second))"}
	templates[ConversionPair{KindFloat64, KindDuration}] = []string{"time.Duration({{.src}} * float64(time.Second))"}
	templates[ConversionPair{KindDuration, KindFloat32}] = []string{"float32({{.src}}.Seconds())"}
	templates[ConversionPair{KindDuration, KindFloat64}] = []string{"{{.src}}.Seconds()"}
}

func parseBlock(tmpType, call string) []string {
	return []string{
		"var {{.dstStem}} " + tmpType,
		"{{.dstStem}}, err = " + call,
		"if err != nil {",
		`	return fmt.Errorf("{{.funcName}}: %w", err)`,
		"}",
		"",
		"{{.dst}} = {{.dstType}}({{.dstStem}})",
	}
}
