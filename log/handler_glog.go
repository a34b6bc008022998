package log

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// PrintOrigins enables or disables log location (file:line) printing for
// terminal format output.
func PrintOrigins(print bool) {
	if print {
		atomic.StoreUint32(&locationEnabled, 1)
	} else {
		atomic.StoreUint32(&locationEnabled, 0)
	}
}

// GlogHandler is a log handler that mimics the filtering features of Google's
// glog logger: setting global log levels; overriding with callsite pattern
// matches; and requesting backtraces at certain positions.
type GlogHandler struct {
	origin Handler // The origin handler this wraps

	level     uint32 // Current log level, atomically accessible
	override  uint32 // Flag whether overrides are used, atomically accessible
	backtrace uint32 // Flag whether backtrace location is set

	patterns  []pattern      // Current list of patterns to override with
	siteCache map[string]Lvl // Cache of callsite pattern evaluations
	location  string         // file:line location where to do a stackdump at
	lock      sync.RWMutex   // Lock protecting the override pattern list
}

// NewGlogHandler creates a new log handler with filtering functionality similar
// to Google's glog logger. The returned handler implements Handler.
func NewGlogHandler(h Handler) *GlogHandler {
	return &GlogHandler{
		origin: h,
	}
}

// SetHandler updates the handler to write records to the specified sub-handler.
func (h *GlogHandler) SetHandler(nh Handler) {
	h.origin = nh
}

// pattern contains a filter for the Vmodule option, holding a verbosity
// level and a file pattern to match.
type pattern struct {
	pattern *regexp.Regexp
	level   Lvl
}

// Verbosity sets the glog verbosity ceiling. The verbosity of individual
// packages and source files can be raised using Vmodule.
func (h *GlogHandler) Verbosity(level Lvl) {
	atomic.StoreUint32(&h.level, uint32(level))
}

// Vmodule sets the glog verbosity pattern.
//
// The syntax of the argument is a comma-separated list of pattern=N, where
// pattern is a literal file name (minus the ".go" suffix) or a "glob"
// pattern and N is a verbosity level.
func (h *GlogHandler) Vmodule(ruleset string) error {
	var filter []pattern
	for _, rule := range strings.Split(ruleset, ",") {
		if len(rule) == 0 {
			continue
		}
		parts := strings.Split(rule, "=")
		if len(parts) != 2 {
			return fmt.Errorf("invalid pattern %q", rule)
		}
		level, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invalid verbosity in pattern %q: %v", rule, err)
		}
		if level <= 0 {
			continue
		}
		matcher := ".*"
		for _, comp := range strings.Split(parts[0], "/") {
			if comp == "*" {
				matcher += "(/.*)?"
			} else if comp != "" {
				matcher += regexp.QuoteMeta(comp) + "(/.*)?"
			}
		}
		re, err := regexp.Compile(matcher)
		if err != nil {
			return err
		}
		filter = append(filter, pattern{re, Lvl(level)})
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	h.patterns = filter
	h.siteCache = make(map[string]Lvl)
	atomic.StoreUint32(&h.override, uint32(len(filter)))

	return nil
}

// BacktraceAt sets the glog backtrace location. When set, a stack trace will
// be dumped whenever execution hits the particular file and line number.
//
// The syntax of "location" is `file.go:145`.
func (h *GlogHandler) BacktraceAt(location string) error {
	parts := strings.Split(location, ":")
	if len(parts) != 2 {
		return errors.New("expect file.go:234")
	}
	if len(parts[0]) == 0 {
		return errors.New("empty file name")
	}
	line, err := strconv.Atoi(parts[1])
	if err != nil {
		return errors.New("expect file.go:234")
	}
	h.lock.Lock()
	defer h.lock.Unlock()

	h.location = fmt.Sprintf("%s:%d", parts[0], line)
	atomic.StoreUint32(&h.backtrace, 1)

	return nil
}

// Log implements Handler.Log, filtering a log record through the global,
// local and backtrace filters, finally emitting it if either allows it
// through.
func (h *GlogHandler) Log(r *Record) error {
	if atomic.LoadUint32(&h.backtrace) != 0 {
		h.lock.RLock()
		match := h.location == fmt.Sprintf("%+v", r.Call)
		h.lock.RUnlock()

		if match {
			buf := make([]byte, 1024*1024)
			buf = buf[:runtime.Stack(buf, false)]
			r.Msg += "\n\n" + string(buf)
		}
	}
	if atomic.LoadUint32(&h.level) >= uint32(r.Lvl) {
		return h.origin.Log(r)
	}
	if atomic.LoadUint32(&h.override) == 0 {
		return nil
	}

	location := fmt.Sprintf("%+v", r.Call)

	h.lock.RLock()
	lvl, ok := h.siteCache[location]
	h.lock.RUnlock()

	if !ok {
		h.lock.Lock()
		for _, p := range h.patterns {
			if p.pattern.MatchString(location) {
				lvl, ok = p.level, true
				h.siteCache[location] = lvl
				break
			}
		}
		if !ok {
			h.siteCache[location] = 0
		}
		h.lock.Unlock()
	}
	if uint32(lvl) >= uint32(r.Lvl) {
		return h.origin.Log(r)
	}
	return nil
}
