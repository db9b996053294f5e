package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Encoding selects how a resource serializes create and update payloads.
type Encoding int

const (
	EncodeJSON Encoding = iota
	EncodeMultipart
)

// ResourceSpec describes one dashboard resource. Every resource shares the
// same request pipeline; only these parameters differ.
type ResourceSpec struct {
	// Noun is used in operation descriptions ("fetch taxes").
	Noun string
	// Singular is used for create and update operations ("create tax").
	Singular   string
	Service    Service
	Collection string
	// CreateAction is appended to Collection for create requests. Empty
	// means POST to the collection itself.
	CreateAction string
	// UpdateAction is appended to Collection before the id. Empty means
	// the resource cannot be updated.
	UpdateAction string
	// IDAliases name fields that carry the identifier when "id" is absent.
	IDAliases []string
	Encoding  Encoding
	TokenKeys []string
	// RecordsField is the envelope field that holds records. Defaults to "data".
	RecordsField string
}

func (s ResourceSpec) recordsField() string {
	if s.RecordsField == "" {
		return "data"
	}
	return s.RecordsField
}

// Envelope is the standard success body: a human-readable detail plus data.
type Envelope[T any] struct {
	Detail Detail `json:"detail,omitzero"`
	Data   T      `json:"data"`
}

// Mutation is the result of a create or update. Data is kept raw because
// the server echoes different shapes per resource.
type Mutation struct {
	Detail Detail          `json:"detail,omitzero"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the echoed record into v.
func (m *Mutation) DecodeData(v any) error {
	if m == nil || len(m.Data) == 0 || string(m.Data) == "null" {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(m.Data, v)
}

// Resource is a typed client for one ResourceSpec.
type Resource[T any] struct {
	spec ResourceSpec
	r    Requester
}

// NewResource binds spec to a requester.
func NewResource[T any](r Requester, spec ResourceSpec) Resource[T] {
	return Resource[T]{spec: spec, r: r}
}

// CreatePath returns the path a create request is sent to.
func (res Resource[T]) CreatePath() string {
	if res.spec.CreateAction == "" {
		return res.spec.Collection
	}
	return res.spec.Collection + "/" + strings.Trim(res.spec.CreateAction, "/")
}

// UpdatePath returns the path an update of id is sent to. Singleton
// resources pass id <= 0.
func (res Resource[T]) UpdatePath(id int) string {
	path := res.spec.Collection + "/" + strings.Trim(res.spec.UpdateAction, "/")
	if id > 0 {
		path = fmt.Sprintf("%s/%d", path, id)
	}
	return path
}

// URL returns the absolute URL for path on the resource's backend.
func (res Resource[T]) URL(path string) string {
	return res.r.endpoint(res.spec.Service, path)
}

// List fetches the collection. Records are canonicalized before decoding.
func (res Resource[T]) List(ctx context.Context) (*Envelope[[]T], error) {
	var out Envelope[[]T]
	op := "fetch " + res.spec.Noun
	if err := res.call(ctx, op, http.MethodGet, res.spec.Collection, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	return &out, nil
}

// Get fetches a singleton resource such as the profile.
func (res Resource[T]) Get(ctx context.Context) (*Envelope[T], error) {
	var out Envelope[T]
	op := "fetch " + res.spec.Singular
	if err := res.call(ctx, op, http.MethodGet, res.spec.Collection, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits payload to the create endpoint.
func (res Resource[T]) Create(ctx context.Context, payload any) (*Mutation, error) {
	op := "create " + res.spec.Singular
	var out Mutation
	if err := res.call(ctx, op, http.MethodPost, res.CreatePath(), res.encoder(payload), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update submits payload to the update endpoint for id.
func (res Resource[T]) Update(ctx context.Context, id int, payload any) (*Mutation, error) {
	op := "update " + res.spec.Singular
	if res.spec.UpdateAction == "" {
		return nil, fmt.Errorf("%s cannot be updated", res.spec.Noun)
	}
	var out Mutation
	if err := res.call(ctx, op, http.MethodPatch, res.UpdatePath(id), res.encoder(payload), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// encoder returns the body builder for payload in the resource's encoding.
func (res Resource[T]) encoder(payload any) func() ([]byte, string, error) {
	if res.spec.Encoding == EncodeMultipart {
		return func() ([]byte, string, error) {
			enc, ok := payload.(FormEncoder)
			if !ok {
				return nil, "", fmt.Errorf("payload %T cannot be sent as a form", payload)
			}
			return enc.Form().Encode()
		}
	}
	return jsonBody(payload)
}

func jsonBody(payload any) func() ([]byte, string, error) {
	return func() ([]byte, string, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return body, "application/json", nil
	}
}

func (res Resource[T]) call(ctx context.Context, op, method, path string, encode func() ([]byte, string, error), out any) error {
	resp, err := res.r.send(ctx, request{
		op:        op,
		service:   res.spec.Service,
		method:    method,
		path:      path,
		tokenKeys: res.spec.TokenKeys,
		encode:    encode,
	})
	if err != nil {
		return err
	}
	return decode(op, resp, res.spec.recordsField(), res.spec.IDAliases, out)
}
