package logger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme
type palette struct {
	fg        string
	time      string
	component [3]string
	id        string
	number    string
	stage     string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;108m",
	component: [3]string{"\x1b[38;5;208m", "\x1b[38;5;214m", "\x1b[38;5;208m"},
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;175m",
	stage:     "\x1b[38;5;208m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;107m",
	component: [3]string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;108m",
	stage:     "\x1b[38;5;208m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Current active theme (set from config or LOCOFILTER_LOG_THEME)
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown names are ignored.
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

func colorComponent(name string) string {
	// Hash for consistent color per component
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	return colors().component[hash%3]
}

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// colorizeMessage highlights bracketed stage markers such as [items] or [bucket:0A]
func colorizeMessage(msg string) string {
	p := colors()
	result := strings.Builder{}
	lastIndex := 0

	for _, match := range bracketPattern.FindAllStringSubmatchIndex(msg, -1) {
		if before := msg[lastIndex:match[0]]; before != "" {
			result.WriteString(p.fg + before + colorReset)
		}

		content := msg[match[2]:match[3]]
		color := p.stage
		if strings.Contains(content, ":") {
			color = p.id
		}
		result.WriteString(color + msg[match[0]:match[1]] + colorReset)
		lastIndex = match[1]
	}

	if remaining := msg[lastIndex:]; remaining != "" {
		result.WriteString(p.fg + remaining + colorReset)
	}
	return result.String()
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  f.items  Bucket filtered  0A (12 copied)"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := colors()
	final := buffer.NewPool().Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown when it is not INFO
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	if len(fields) > 0 {
		if values := extractFieldValues(fields); values != "" {
			final.AppendString("  ")
			final.AppendString(values)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-INFO levels
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.DebugLevel:
		return p.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + p.errBg + p.err + "ERROR" + colorReset
	default:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: filter.items -> f.items
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.DurationType:
		return time.Duration(field.Integer).String()
	}

	// Everything else (floats, errors, reflected values) goes through a map encoder
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	if v, ok := enc.Fields[field.Key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// extractFieldValues renders structured fields compactly.
// Layout identifiers and counts get theme colors; every other field is printed
// as key=value so nothing is silently dropped.
//
// Input:  {"bucket": "0A", "count": 12, "file": "x.json"}
// Output: "0A x.json (12)"
func extractFieldValues(fields []zapcore.Field) string {
	p := colors()
	var values []string
	var count string

	for _, field := range fields {
		if field.Type == zapcore.SkipType {
			continue
		}
		val := getFieldValue(field)
		switch field.Key {
		case FieldBucket, FieldContainer, FieldFile, FieldPlaceID:
			if val != "" {
				values = append(values, p.id+val+colorReset)
			}
		case FieldCount:
			count = val
		case FieldDurationMS:
			if val != "" {
				values = append(values, p.number+val+colorReset+"ms")
			}
		default:
			values = append(values, field.Key+"="+val)
		}
	}

	if count != "" {
		values = append(values, p.fg+"("+p.number+count+colorReset+p.fg+")"+colorReset)
	}

	return strings.Join(values, " ")
}
