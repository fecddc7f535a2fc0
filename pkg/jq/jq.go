// Package jq evaluates jq programs against JSON documents using gojq.
package jq

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Engine runs a compiled jq program against one JSON-encoded document at a
// time. Execute returns the program's output as JSON text with every
// emitted value terminated by exactly one newline.
type Engine interface {
	Execute(input string) (string, error)
}

// Compile parses and compiles a jq program once so it can be reused across
// every input document in a run.
func Compile(program string) (Engine, error) {
	query, err := gojq.Parse(program)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq program: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq program: %w", err)
	}
	return &gojqEngine{code: code}, nil
}

type gojqEngine struct {
	code *gojq.Code
}

func (e *gojqEngine) Execute(input string) (string, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		return "", fmt.Errorf("invalid input document: %w", err)
	}

	var b strings.Builder
	iter := e.code.Run(v)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := out.(error); isErr {
			return "", fmt.Errorf("failed to execute jq program: %w", err)
		}
		encoded, err := json.Marshal(out)
		if err != nil {
			return "", fmt.Errorf("failed to encode jq program output: %w", err)
		}
		b.Write(encoded)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
