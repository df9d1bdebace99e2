// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GraphSON mime types.
const (
	MimeGraphSONv1 = "application/vnd.gremlin-v1.0+json"
	MimeGraphSONv2 = "application/vnd.gremlin-v2.0+json"
	MimeGraphSONv3 = "application/vnd.gremlin-v3.0+json"
)

// DefaultSerializer is the serializer name used when none is configured.
const DefaultSerializer = "graphson-v3"

// Serializer translates messages to and from the wire format.
type Serializer interface {
	// MimeType is the mime type announced in the request frame header.
	MimeType() string
	// SerializeRequest returns the complete binary frame for req.
	SerializeRequest(req RequestMessage) ([]byte, error)
	// DeserializeResponse parses a response frame.
	DeserializeResponse(data []byte) (ResponseMessage, error)
}

// GraphSONSerializer implements Serializer for GraphSON 1.0, 2.0 and 3.0.
type GraphSONSerializer struct {
	version int
	mime    string
}

// NewGraphSONSerializer returns a serializer for the given GraphSON major
// version. Unknown versions fall back to 3.
func NewGraphSONSerializer(version int) *GraphSONSerializer {
	switch version {
	case 1:
		return &GraphSONSerializer{version: 1, mime: MimeGraphSONv1}
	case 2:
		return &GraphSONSerializer{version: 2, mime: MimeGraphSONv2}
	default:
		return &GraphSONSerializer{version: 3, mime: MimeGraphSONv3}
	}
}

// SerializerByName resolves names like "graphson-v2", "graphsonv2" or "v2".
func SerializerByName(name string) (*GraphSONSerializer, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "graphson")
	n = strings.TrimPrefix(n, "-")
	n = strings.TrimPrefix(n, "v")
	switch n {
	case "", "3", "3.0":
		return NewGraphSONSerializer(3), nil
	case "2", "2.0":
		return NewGraphSONSerializer(2), nil
	case "1", "1.0":
		return NewGraphSONSerializer(1), nil
	}
	return nil, fmt.Errorf("unknown serializer %q (use graphson-v1, graphson-v2 or graphson-v3)", name)
}

// Version returns the GraphSON major version.
func (s *GraphSONSerializer) Version() int { return s.version }

func (s *GraphSONSerializer) MimeType() string { return s.mime }

type wireRequest struct {
	RequestID any            `json:"requestId"`
	Op        string         `json:"op"`
	Processor string         `json:"processor"`
	Args      map[string]any `json:"args"`
}

// SerializeRequest encodes req and prefixes it with the mime header: one
// byte holding the mime length followed by the mime bytes.
func (s *GraphSONSerializer) SerializeRequest(req RequestMessage) ([]byte, error) {
	w := graphsonWriter{version: s.version}
	args := make(map[string]any, len(req.Args))
	for k, v := range req.Args {
		enc, err := w.write(v)
		if err != nil {
			return nil, fmt.Errorf("serialize arg %q: %w", k, err)
		}
		args[k] = enc
	}
	var id any = req.RequestID
	if s.version >= 2 {
		id = typed("g:UUID", req.RequestID)
	}
	payload, err := json.Marshal(wireRequest{RequestID: id, Op: req.Op, Processor: req.Processor, Args: args})
	if err != nil {
		return nil, fmt.Errorf("serialize request: %w", err)
	}
	return frame(s.mime, payload), nil
}

func frame(mime string, payload []byte) []byte {
	out := make([]byte, 0, 1+len(mime)+len(payload))
	out = append(out, byte(len(mime)))
	out = append(out, mime...)
	return append(out, payload...)
}

// DeserializeResponse parses a GraphSON response. Responses are plain JSON
// without the mime header.
func (s *GraphSONSerializer) DeserializeResponse(data []byte) (ResponseMessage, error) {
	var resp ResponseMessage
	doc, err := decodeDocument(data)
	if err != nil {
		return resp, err
	}
	root, ok := doc.(*jsonObject)
	if !ok {
		return resp, fmt.Errorf("graphson: response is %T, not an object", doc)
	}

	if raw, ok := root.get("requestId"); ok && raw != nil {
		id, err := fromGraphSON(raw)
		if err != nil {
			return resp, err
		}
		resp.RequestID = fmt.Sprint(id)
	}

	if raw, ok := root.get("status"); ok {
		status, ok := raw.(*jsonObject)
		if !ok {
			return resp, fmt.Errorf("graphson: status is %T", raw)
		}
		if c, ok := status.get("code"); ok {
			code, err := fromGraphSON(c)
			if err != nil {
				return resp, err
			}
			n, err := toInt64(code)
			if err != nil {
				return resp, fmt.Errorf("graphson: status code: %w", err)
			}
			resp.Status.Code = StatusCode(n)
		}
		resp.Status.Message = stringField(status, "message")
		attrs, err := convertField(status, "attributes")
		if err != nil {
			return resp, err
		}
		resp.Status.Attributes = asStringMap(attrs)
	}

	if raw, ok := root.get("result"); ok {
		result, ok := raw.(*jsonObject)
		if !ok {
			return resp, fmt.Errorf("graphson: result is %T", raw)
		}
		if resp.Result.Data, err = convertField(result, "data"); err != nil {
			return resp, err
		}
		meta, err := convertField(result, "meta")
		if err != nil {
			return resp, err
		}
		resp.Result.Meta = asStringMap(meta)
	}
	return resp, nil
}

func asStringMap(v any) map[string]any {
	if m, ok := v.(*Map); ok {
		return m.StringMap()
	}
	return nil
}
