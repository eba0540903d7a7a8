package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// EncodeMethodCall serializes a methodCall document.
func EncodeMethodCall(method string, params []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodCall><methodName>")
	if err := escape(&buf, method); err != nil {
		return nil, err
	}
	buf.WriteString("</methodName><params>")
	for _, p := range params {
		buf.WriteString("<param>")
		if err := encodeValue(&buf, p); err != nil {
			return nil, err
		}
		buf.WriteString("</param>")
	}
	buf.WriteString("</params></methodCall>")
	return buf.Bytes(), nil
}

// EncodeResponse serializes a single-value methodResponse document.
func EncodeResponse(result any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><params><param>")
	if err := encodeValue(&buf, result); err != nil {
		return nil, err
	}
	buf.WriteString("</param></params></methodResponse>")
	return buf.Bytes(), nil
}

// EncodeFault serializes a fault methodResponse document.
func EncodeFault(f *Fault) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><fault>")
	err := encodeValue(&buf, map[string]any{
		"faultCode":   f.Code,
		"faultString": f.String,
	})
	if err != nil {
		return nil, err
	}
	buf.WriteString("</fault></methodResponse>")
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	buf.WriteString("<value>")
	switch t := v.(type) {
	case nil:
		buf.WriteString("<string></string>")
	case string:
		buf.WriteString("<string>")
		if err := escape(buf, t); err != nil {
			return err
		}
		buf.WriteString("</string>")
	case int:
		buf.WriteString("<int>" + strconv.Itoa(t) + "</int>")
	case bool:
		if t {
			buf.WriteString("<boolean>1</boolean>")
		} else {
			buf.WriteString("<boolean>0</boolean>")
		}
	case float64:
		buf.WriteString("<double>" + strconv.FormatFloat(t, 'g', -1, 64) + "</double>")
	case []byte:
		buf.WriteString("<base64>" + base64.StdEncoding.EncodeToString(t) + "</base64>")
	case time.Time:
		buf.WriteString("<dateTime.iso8601>" + t.Format(timeLayout) + "</dateTime.iso8601>")
	case []any:
		buf.WriteString("<array><data>")
		for _, elem := range t {
			if err := encodeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case map[string]any:
		// Sorted for deterministic output.
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)

		buf.WriteString("<struct>")
		for _, name := range names {
			buf.WriteString("<member><name>")
			if err := escape(buf, name); err != nil {
				return err
			}
			buf.WriteString("</name>")
			if err := encodeValue(buf, t[name]); err != nil {
				return err
			}
			buf.WriteString("</member>")
		}
		buf.WriteString("</struct>")
	default:
		return fmt.Errorf("xmlrpc: cannot encode value of type %T", v)
	}
	buf.WriteString("</value>")
	return nil
}

func escape(buf *bytes.Buffer, s string) error {
	return xml.EscapeText(buf, []byte(s))
}
