package services

import (
	"context"

	"github.com/habitloop/health-backend/llm"
)

// Inference is the structured-generation collaborator: a prompt plus a JSON
// schema in, a schema-conformant object (decoded into out) or an error back.
// *llm.Client implements it; tests substitute a stub.
type Inference interface {
	GenerateJSON(ctx context.Context, prompt string, schema llm.Schema, out interface{}) error
}
