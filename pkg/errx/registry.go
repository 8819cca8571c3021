package errx

import "sync"

type definition struct {
	typ     Type
	status  int
	message string
}

// Registry holds the error codes of one bounded context under a common prefix
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[string]definition
}

// NewRegistry creates a registry; codes are rendered as PREFIX_CODE
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]definition),
	}
}

// Register declares a code and returns its fully qualified form
func (r *Registry) Register(code string, typ Type, httpStatus int, message string) string {
	full := code
	if r.prefix != "" {
		full = r.prefix + "_" + code
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[full] = definition{typ: typ, status: httpStatus, message: message}
	return full
}

// New returns a fresh *Error for a registered code
func (r *Registry) New(code string) *Error {
	r.mu.RLock()
	def, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return New(code, TypeInternal, "unregistered error code")
	}

	return &Error{
		Code:       code,
		Type:       def.typ,
		Message:    def.message,
		HTTPStatus: def.status,
	}
}
