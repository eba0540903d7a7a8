package xmlrpc

import (
	"errors"
	"io"
	"net/http"
)

// Handler executes one decoded XML-RPC call and returns its result value.
// Returning a *Fault produces a fault response; any other error is reported
// to the caller as a generic application fault.
type Handler func(r *http.Request, method string, params []any) (any, error)

// ServerHandler adapts a Handler to net/http. All POSTs are treated as
// XML-RPC regardless of path, matching how ROS clients address the master.
type ServerHandler struct {
	handle Handler
}

// NewServerHandler wraps handle as an http.Handler.
func NewServerHandler(handle Handler) *ServerHandler {
	return &ServerHandler{handle: handle}
}

func (s *ServerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	method, params, err := DecodeMethodCall(body)
	if err != nil {
		s.reply(w, nil, &Fault{Code: -32700, String: err.Error()})
		return
	}

	result, err := s.handle(r, method, params)
	s.reply(w, result, err)
}

func (s *ServerHandler) reply(w http.ResponseWriter, result any, err error) {
	var payload []byte
	var encErr error

	if err != nil {
		var fault *Fault
		if !errors.As(err, &fault) {
			fault = &Fault{Code: 1, String: err.Error()}
		}
		payload, encErr = EncodeFault(fault)
	} else {
		payload, encErr = EncodeResponse(result)
	}
	if encErr != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(payload)
}
