package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Handler defines where and how log records are written.
// A logger prints its log records by writing to a Handler.
// Handlers are composable, providing you great flexibility in combining
// them to achieve the logging structure that suits your applications.
type Handler interface {
	Log(r *Record) error
}

// FuncHandler returns a Handler that logs records with the given
// function.
type FuncHandler func(r *Record) error

func (h FuncHandler) Log(r *Record) error {
	return h(r)
}

// StreamHandler writes log records to an io.Writer with the given format.
// A StreamHandler is safe for concurrent use since it serializes writes
// with a mutex.
func StreamHandler(wr io.Writer, fmtr Format) Handler {
	h := FuncHandler(func(r *Record) error {
		_, err := wr.Write(fmtr.Format(r))
		return err
	})
	return SyncHandler(h)
}

// SyncHandler can be wrapped around a handler to guarantee that only one
// Log operation can proceed at a time. It's necessary for thread-safe
// concurrent writes.
func SyncHandler(h Handler) Handler {
	var mu sync.Mutex
	return FuncHandler(func(r *Record) error {
		mu.Lock()
		defer mu.Unlock()
		return h.Log(r)
	})
}

// FileHandler returns a handler which writes log records to the give file
// using the given format. If the path already exists, FileHandler will
// append to the given file. If it does not, FileHandler will create the
// file with mode 0644.
func FileHandler(path string, fmtr Format) (Handler, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return closingHandler{f, StreamHandler(f, fmtr)}, nil
}

// closingHandler pairs a handler with the WriteCloser it writes to. The
// file is closed only by an explicit call to its Close method.
type closingHandler struct {
	io.WriteCloser
	Handler
}

// DiscardHandler reports success for all writes but does nothing.
// It is the default handler for a Logger that has been silenced.
func DiscardHandler() Handler {
	return FuncHandler(func(r *Record) error {
		return nil
	})
}

// LvlFilterHandler returns a Handler that only writes records whose level
// is less than or equal to the given level to the wrapped Handler. For
// example, to only print Error/Crit records:
//
//	log.LvlFilterHandler(log.LvlError, log.StdoutHandler)
func LvlFilterHandler(maxLvl Lvl, h Handler) Handler {
	return FuncHandler(func(r *Record) error {
		if r.Lvl > maxLvl {
			return nil
		}
		return h.Log(r)
	})
}

// MultiHandler dispatches any write to each of its handlers.
// This is useful for writing to multiple destinations, e.g. a file and
// the console.
func MultiHandler(hs ...Handler) Handler {
	return FuncHandler(func(r *Record) error {
		var errs []error
		for _, h := range hs {
			if err := h.Log(r); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("multi handler: %v", errs)
		}
		return nil
	})
}

// FailoverHandler writes all log records to the first handler specified,
// but will failover and write to the second handler if the first
// handler has failed, and so on for all handlers specified. For example
// you might want to log to a network socket, but failover to writing to
// a file if the network fails, and then to stdout if the file write
// fails.
func FailoverHandler(hs ...Handler) Handler {
	return FuncHandler(func(r *Record) error {
		var err error
		for _, h := range hs {
			err = h.Log(r)
			if err == nil {
				return nil
			}
		}
		return err
	})
}

// swapHandler wraps another handler that may be swapped out dynamically
// at runtime in a thread-safe fashion.
type swapHandler struct {
	mu sync.RWMutex
	h  Handler
}

func (h *swapHandler) Log(r *Record) error {
	h.mu.RLock()
	handler := h.h
	h.mu.RUnlock()
	if handler == nil {
		return nil
	}
	return handler.Log(r)
}

func (h *swapHandler) Swap(newHandler Handler) {
	h.mu.Lock()
	h.h = newHandler
	h.mu.Unlock()
}

func (h *swapHandler) Get() Handler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h
}
