package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled sync.Map // schema name -> *jsonschema.Schema

func compile(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON values, not Go maps of arbitrary types.
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", s.Name, err)
	}

	url := "mem://llm/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	actual, _ := compiled.LoadOrStore(s.Name, sch)
	return actual.(*jsonschema.Schema), nil
}

// Conform checks content against s. A nil schema accepts anything.
func Conform(s *Schema, content json.RawMessage) error {
	if s == nil {
		return nil
	}
	sch, err := compile(s)
	if err != nil {
		return invalid(content, "%w", err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(content))
	if err != nil {
		return invalid(content, "not JSON: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return invalid(content, "%s: %w", s.Name, err)
	}
	return nil
}

// finish validates content and assembles the response.
func finish(req Request, content json.RawMessage, usage Usage, model string, stop StopReason) (*Response, error) {
	if stop == StopMaxTokens && req.Schema != nil {
		return nil, &Error{Kind: KindTruncated, Content: content}
	}
	if err := Conform(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
