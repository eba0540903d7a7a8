// Package xmlrpc implements the XML-RPC wire format used by the ROS master
// API, with an HTTP client and server handler sharing one value model.
//
// Values map to Go types as follows: int/i4 -> int, boolean -> bool,
// string -> string, double -> float64, base64 -> []byte,
// dateTime.iso8601 -> time.Time, array -> []any, struct -> map[string]any.
// Because both sides of the relay use the same model, any payload a caller
// sends can be re-encoded for the upstream without loss.
package xmlrpc

import "fmt"

// Fault is an XML-RPC fault response. It satisfies error so transport users
// can distinguish protocol-level failures from connection failures.
type Fault struct {
	Code   int
	String string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("xmlrpc fault %d: %s", f.Code, f.String)
}

// timeLayout is the ISO8601 variant mandated by the XML-RPC spec.
const timeLayout = "20060102T15:04:05"
