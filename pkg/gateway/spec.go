package gateway

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed cms-api.yaml
var embeddedSpec []byte

// EmbeddedSpec returns the raw OpenAPI document describing the remote CMS API.
func EmbeddedSpec() []byte {
	out := make([]byte, len(embeddedSpec))
	copy(out, embeddedSpec)
	return out
}

// operation is one resolved route from the OpenAPI document.
type operation struct {
	Method string
	Path   string
}

// loadOperations parses an OpenAPI document and indexes its operations by
// operationId, the key the client methods use to resolve routes.
func loadOperations(ctx context.Context, raw []byte) (map[string]operation, error) {
	if len(raw) == 0 {
		return nil, errors.New("gateway: spec payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("gateway: load spec: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("gateway: spec does not contain any paths")
	}

	operations := make(map[string]operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		collect(operations, "GET", path, item.Get)
		collect(operations, "PUT", path, item.Put)
		collect(operations, "POST", path, item.Post)
		collect(operations, "DELETE", path, item.Delete)
		collect(operations, "PATCH", path, item.Patch)
	}

	if len(operations) == 0 {
		return nil, errors.New("gateway: no operations extracted from spec")
	}
	return operations, nil
}

func collect(target map[string]operation, method, path string, op *openapi3.Operation) {
	if op == nil {
		return
	}
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	target[id] = operation{Method: method, Path: path}
}

// endpoint substitutes path parameters into an operation's route template.
func (op operation) endpoint(params map[string]string) string {
	path := op.Path
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}
	return path
}
