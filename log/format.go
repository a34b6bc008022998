package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	timeFormat     = "2006-01-02T15:04:05-0700"
	termTimeFormat = "01-02|15:04:05.000"
	floatFormat    = 'f'
	termMsgJust    = 40
)

// locationEnabled is an atomic flag controlling whether the terminal
// formatter should append the log locations too when printing entries.
var locationEnabled uint32

// locationLength is the maxmimum path length encountered, which all logs
// are padded to to aid in alignment.
var locationLength uint32

// TerminalStringer is implemented by types that log their value as strings
// when in TerminalFormat.
type TerminalStringer interface {
	TerminalString() string
}

// Format formats a log record into a []byte.
type Format interface {
	Format(r *Record) []byte
}

// FormatFunc returns a new Format object which uses the given function to
// format a record.
type FormatFunc func(*Record) []byte

func (f FormatFunc) Format(r *Record) []byte {
	return f(r)
}

// TerminalFormat formats log records optimized for human readability on a
// terminal with color-coded level output and terser human friendly
// timestamp. It is tuned for both readability in an ordinary terminal, and
// coloring for a terminal with ANSI color support.
//
//	[LEVEL] [TIME] MESSAGE key=value key=value ...
func TerminalFormat(usecolor bool) Format {
	return FormatFunc(func(r *Record) []byte {
		var color = 0
		if usecolor {
			switch r.Lvl {
			case LvlCrit:
				color = 35
			case LvlError:
				color = 31
			case LvlWarn:
				color = 33
			case LvlInfo:
				color = 32
			case LvlDebug, LvlTrace:
				color = 90
			}
		}

		b := &bytes.Buffer{}
		lvl := r.Lvl.AlignedString()
		msg := escapeMessage(r.Msg)
		if atomic.LoadUint32(&locationEnabled) != 0 {
			location := fmt.Sprintf("%+v", r.Call)
			align := int(atomic.LoadUint32(&locationLength))
			if align < len(location) {
				align = len(location)
				atomic.StoreUint32(&locationLength, uint32(align))
			}
			padding := strings.Repeat(" ", align-len(location))

			if color > 0 {
				fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m[%s|%s%s] %s ", color, lvl, r.Time.Format(termTimeFormat), location, padding, msg)
			} else {
				fmt.Fprintf(b, "%s[%s|%s%s] %s ", lvl, r.Time.Format(termTimeFormat), location, padding, msg)
			}
		} else {
			if color > 0 {
				fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m[%s] %s ", color, lvl, r.Time.Format(termTimeFormat), msg)
			} else {
				fmt.Fprintf(b, "%s[%s] %s ", lvl, r.Time.Format(termTimeFormat), msg)
			}
		}

		// Try to justify the log output for short messages.
		length := utf8.RuneCountInString(msg)
		if len(r.Ctx) > 0 && length < termMsgJust {
			b.Write(bytes.Repeat([]byte{' '}, termMsgJust-length))
		}
		logfmt(b, r.Ctx, color, true)
		return b.Bytes()
	})
}

// LogfmtFormat prints records in logfmt format, an easy machine-parseable
// but human-readable format for key/value pairs.
func LogfmtFormat() Format {
	return FormatFunc(func(r *Record) []byte {
		common := []interface{}{r.KeyNames.Time, r.Time, r.KeyNames.Lvl, r.Lvl.String(), r.KeyNames.Msg, r.Msg}
		buf := &bytes.Buffer{}
		logfmt(buf, append(common, r.Ctx...), 0, false)
		return buf.Bytes()
	})
}

func logfmt(buf *bytes.Buffer, ctx []interface{}, color int, term bool) {
	for i := 0; i < len(ctx); i += 2 {
		if i != 0 {
			buf.WriteByte(' ')
		}

		k, ok := ctx[i].(string)
		v := formatLogfmtValue(ctx[i+1], term)
		if !ok {
			k, v = errorKey, formatLogfmtValue(k, term)
		} else {
			k = escapeString(k)
		}

		if color > 0 {
			fmt.Fprintf(buf, "\x1b[%dm%s\x1b[0m=%s", color, k, v)
		} else {
			buf.WriteString(k)
			buf.WriteByte('=')
			buf.WriteString(v)
		}
	}
	buf.WriteByte('\n')
}

// JSONFormat formats log records as JSON objects separated by newlines.
func JSONFormat() Format {
	return FormatFunc(func(r *Record) []byte {
		props := map[string]interface{}{
			r.KeyNames.Time: r.Time,
			r.KeyNames.Lvl:  r.Lvl.String(),
			r.KeyNames.Msg:  r.Msg,
		}
		for i := 0; i < len(r.Ctx); i += 2 {
			k, ok := r.Ctx[i].(string)
			if !ok {
				k = errorKey
			}
			props[k] = formatShared(r.Ctx[i+1])
		}
		b, err := json.Marshal(props)
		if err != nil {
			b, _ = json.Marshal(map[string]string{errorKey: err.Error()})
		}
		return append(b, '\n')
	})
}

// formatShared applies the type coercions shared by all formats: known
// stringer-ish types render as their natural string form, so JSON and
// logfmt output do not depend on Go's struct field layout.
func formatShared(value interface{}) (result interface{}) {
	defer func() {
		if err := recover(); err != nil {
			if v, ok := value.(*big.Int); ok && v == nil {
				result = "<nil>"
				return
			}
			panic(err)
		}
	}()

	switch v := value.(type) {
	case time.Time:
		return v.Format(timeFormat)
	case *big.Int:
		if v == nil {
			return "<nil>"
		}
		return v.String()
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

func formatLogfmtValue(value interface{}, term bool) string {
	if value == nil {
		return "nil"
	}

	if t, ok := value.(time.Time); ok {
		return t.Format(timeFormat)
	}
	if err, ok := value.(error); ok {
		value = err.Error()
	}

	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), floatFormat, 3, 32)
	case float64:
		return strconv.FormatFloat(v, floatFormat, 3, 64)
	case int8:
		return FormatLogfmtInt64(int64(v))
	case uint8:
		return FormatLogfmtUint64(uint64(v))
	case int16:
		return FormatLogfmtInt64(int64(v))
	case uint16:
		return FormatLogfmtUint64(uint64(v))
	case int32:
		return FormatLogfmtInt64(int64(v))
	case uint32:
		return FormatLogfmtUint64(uint64(v))
	case int64:
		return FormatLogfmtInt64(v)
	case uint64:
		return FormatLogfmtUint64(v)
	case int:
		return FormatLogfmtInt64(int64(v))
	case uint:
		return FormatLogfmtUint64(uint64(v))
	case *big.Int:
		if v == nil {
			return "<nil>"
		}
		return formatLogfmtBigInt(v)
	}
	if term {
		if s, ok := value.(TerminalStringer); ok {
			return escapeMessage(s.TerminalString())
		}
	}
	value = formatShared(value)
	switch v := value.(type) {
	case string:
		return escapeString(v)
	default:
		return escapeString(fmt.Sprintf("%+v", v))
	}
}

// FormatLogfmtInt64 formats n with thousand separators once it grows past
// five digits, the same threshold glog-style loggers use to keep short
// counters compact while making large ones scannable.
func FormatLogfmtInt64(n int64) string {
	if n < 0 {
		return formatLogfmtUint64(uint64(-n), true)
	}
	return formatLogfmtUint64(uint64(n), false)
}

// FormatLogfmtUint64 is the unsigned counterpart of FormatLogfmtInt64.
func FormatLogfmtUint64(n uint64) string {
	return formatLogfmtUint64(n, false)
}

func formatLogfmtUint64(n uint64, neg bool) string {
	if n < 100000 {
		if neg {
			return strconv.Itoa(-int(n))
		}
		return strconv.Itoa(int(n))
	}
	const maxLength = 26

	out := make([]byte, maxLength)
	i := maxLength - 1
	comma := 0
	for ; n > 0; i-- {
		if comma == 3 {
			comma = 0
			out[i] = ','
			continue
		}
		comma++
		out[i] = '0' + byte(n%10)
		n /= 10
	}
	if neg {
		i--
		out[i] = '-'
	}
	return string(out[i+1:])
}

func formatLogfmtBigInt(n *big.Int) string {
	if n.IsInt64() {
		return FormatLogfmtInt64(n.Int64())
	}

	text := n.String()
	buf := make([]byte, len(text)+len(text)/3)
	comma := 0
	i := len(buf) - 1
	for j := len(text) - 1; j >= 0; j-- {
		c := text[j]
		if c == '-' {
			buf[i] = c
			i--
			break
		}
		if comma == 3 {
			buf[i] = ','
			i--
			comma = 0
		}
		comma++
		buf[i] = c
		i--
	}
	return string(buf[i+1:])
}

// escapeMessage quotes a log message only when it contains characters that
// would otherwise break terminal rendering. Spaces and line breaks are left
// alone so free-form messages stay readable.
func escapeMessage(s string) string {
	needsQuoting := false
	for _, r := range s {
		if r == ' ' || r == '\n' {
			continue
		}
		if !unicode.IsPrint(r) {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return strconv.Quote(s)
}

// escapeString quotes a context key or value if it contains whitespace, an
// equals sign, a quote, or any non-printable character.
func escapeString(s string) string {
	needsQuoting := false
	for _, r := range s {
		if r == ' ' || r == '=' || r == '"' || !unicode.IsPrint(r) {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return strconv.Quote(s)
}
