package contract

import (
	"context"
	"encoding/json"
)

type CRM interface {
	ListObjects(ctx context.Context, kind ObjectType, limit int, properties []string) (json.RawMessage, error)
	FetchObjects(ctx context.Context, kind ObjectType, limit int, properties []string) ([]Object, error)
	CreateObject(ctx context.Context, kind ObjectType, in CreateObjectInput) (json.RawMessage, error)
	AssociatedIDs(ctx context.Context, from ObjectType, id string, to ObjectType) ([]string, error)
	BatchRead(ctx context.Context, kind ObjectType, ids []string, properties []string) (json.RawMessage, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
