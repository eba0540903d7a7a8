package xmlrpc

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type xmlValue struct {
	Int      *string    `xml:"int"`
	I4       *string    `xml:"i4"`
	Boolean  *string    `xml:"boolean"`
	String   *string    `xml:"string"`
	Double   *string    `xml:"double"`
	Base64   *string    `xml:"base64"`
	DateTime *string    `xml:"dateTime.iso8601"`
	Array    *xmlArray  `xml:"array"`
	Struct   *xmlStruct `xml:"struct"`
	Text     string     `xml:",chardata"`
}

type xmlArray struct {
	Values []xmlValue `xml:"data>value"`
}

type xmlStruct struct {
	Members []xmlMember `xml:"member"`
}

type xmlMember struct {
	Name  string   `xml:"name"`
	Value xmlValue `xml:"value"`
}

type xmlMethodCall struct {
	XMLName    xml.Name   `xml:"methodCall"`
	MethodName string     `xml:"methodName"`
	Params     []xmlValue `xml:"params>param>value"`
}

type xmlMethodResponse struct {
	XMLName xml.Name   `xml:"methodResponse"`
	Params  []xmlValue `xml:"params>param>value"`
	Fault   *xmlValue  `xml:"fault>value"`
}

// DecodeMethodCall parses a methodCall document into its method name and
// decoded parameter values.
func DecodeMethodCall(data []byte) (string, []any, error) {
	var call xmlMethodCall
	if err := xml.Unmarshal(data, &call); err != nil {
		return "", nil, fmt.Errorf("xmlrpc: malformed method call: %w", err)
	}
	if strings.TrimSpace(call.MethodName) == "" {
		return "", nil, fmt.Errorf("xmlrpc: method call without methodName")
	}

	params := make([]any, len(call.Params))
	for i, v := range call.Params {
		decoded, err := decodeValue(v)
		if err != nil {
			return "", nil, fmt.Errorf("xmlrpc: param %d: %w", i, err)
		}
		params[i] = decoded
	}
	return strings.TrimSpace(call.MethodName), params, nil
}

// DecodeResponse parses a methodResponse document into its single result
// value. A fault document is returned as a *Fault error.
func DecodeResponse(data []byte) (any, error) {
	var resp xmlMethodResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("xmlrpc: malformed method response: %w", err)
	}

	if resp.Fault != nil {
		return nil, decodeFault(*resp.Fault)
	}
	if len(resp.Params) != 1 {
		return nil, fmt.Errorf("xmlrpc: expected 1 response value, got %d", len(resp.Params))
	}
	return decodeValue(resp.Params[0])
}

func decodeFault(v xmlValue) error {
	decoded, err := decodeValue(v)
	if err != nil {
		return fmt.Errorf("xmlrpc: malformed fault: %w", err)
	}
	members, ok := decoded.(map[string]any)
	if !ok {
		return fmt.Errorf("xmlrpc: fault value is not a struct")
	}

	f := &Fault{}
	if code, ok := members["faultCode"].(int); ok {
		f.Code = code
	}
	if msg, ok := members["faultString"].(string); ok {
		f.String = msg
	}
	return f
}

func decodeValue(v xmlValue) (any, error) {
	switch {
	case v.Int != nil:
		return strconv.Atoi(strings.TrimSpace(*v.Int))
	case v.I4 != nil:
		return strconv.Atoi(strings.TrimSpace(*v.I4))
	case v.Boolean != nil:
		switch strings.TrimSpace(*v.Boolean) {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", *v.Boolean)
	case v.Double != nil:
		return strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
	case v.Base64 != nil:
		return base64.StdEncoding.DecodeString(strings.TrimSpace(*v.Base64))
	case v.DateTime != nil:
		return time.Parse(timeLayout, strings.TrimSpace(*v.DateTime))
	case v.Array != nil:
		out := make([]any, len(v.Array.Values))
		for i, elem := range v.Array.Values {
			decoded, err := decodeValue(elem)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct.Members))
		for _, m := range v.Struct.Members {
			decoded, err := decodeValue(m.Value)
			if err != nil {
				return nil, err
			}
			out[m.Name] = decoded
		}
		return out, nil
	case v.String != nil:
		return *v.String, nil
	default:
		// A bare <value> without a type element is a string.
		return v.Text, nil
	}
}
