package client

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/valescamoura/hkgo/internal/constants"
	"github.com/valescamoura/hkgo/internal/http"
	"github.com/valescamoura/hkgo/pkg/hk"
	"github.com/valescamoura/hkgo/pkg/hklib"
)

// Repository implements hk.RepositoryClient. It shares its base client's
// transport and is only valid for as long as the base client is.
type Repository struct {
	base       *Client
	httpClient *http.Client
	name       string

	// Endpoint paths. The entity collection uses a trailing slash for
	// mutations and none for retrieval, matching the server's routes.
	entityPath    string
	entityGetPath string
	rdfPath       string
	queryPath     string
}

func (c *Client) newRepository(name string) *Repository {
	prefix := c.repositoryPath + "/" + name

	return &Repository{
		base:          c,
		httpClient:    c.httpClient,
		name:          name,
		entityPath:    prefix + "/entity/",
		entityGetPath: prefix + "/entity",
		rdfPath:       prefix + "/rdf",
		queryPath:     prefix + "/query/",
	}
}

// Name implements hk.RepositoryClient.Name.
func (r *Repository) Name() string {
	return r.name
}

// CreateTransaction implements hk.RepositoryClient.CreateTransaction.
func (r *Repository) CreateTransaction(id string) *hk.Transaction {
	if id == "" {
		id = uuid.NewString()
	}

	return &hk.Transaction{ID: id, Repository: r.name}
}

// AddEntities implements hk.RepositoryClient.AddEntities. The whole
// collection goes up in a single PUT.
func (r *Repository) AddEntities(ctx context.Context, tx *hk.Transaction, entities ...any) error {
	payload, err := normalizeEntities(entities)
	if err != nil {
		return err
	}

	_, err = r.httpClient.Do(ctx, &http.Request{
		Method:  nethttp.MethodPut,
		Path:    r.entityPath,
		Body:    payload,
		Headers: transactionHeader(tx),
	})
	if err != nil {
		return wrapErr(err, "could not add the entities")
	}

	return nil
}

// UpdateEntities implements hk.RepositoryClient.UpdateEntities. The server
// PUT is an idempotent upsert, so update shares the add path.
func (r *Repository) UpdateEntities(ctx context.Context, tx *hk.Transaction, entities ...any) error {
	return r.AddEntities(ctx, tx, entities...)
}

// GetEntities implements hk.RepositoryClient.GetEntities.
func (r *Repository) GetEntities(ctx context.Context, filter any) ([]hklib.Entity, error) {
	req := &http.Request{
		Method: nethttp.MethodPost,
		Path:   r.entityGetPath,
	}

	switch f := filter.(type) {
	case string:
		req.RawBody = []byte(f)
		req.ContentType = constants.ContentTypePlainText
	case map[string]any:
		req.Body = f
	default:
		return nil, hk.ErrInvalidFilterType
	}

	resp, err := r.httpClient.Do(ctx, req)
	if err != nil {
		return nil, wrapErr(err, "could not retrieve the entities")
	}

	// The server keys the result object by entity id; only the values
	// matter here.
	var data map[string]map[string]any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, wrapErr(err, "could not retrieve the entities")
	}

	entities := make([]hklib.Entity, 0, len(data))

	for _, raw := range data {
		entity, err := hklib.Decode(raw)
		if err != nil {
			return nil, wrapErr(err, "could not retrieve the entities")
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

// DeleteEntities implements hk.RepositoryClient.DeleteEntities.
func (r *Repository) DeleteEntities(ctx context.Context, tx *hk.Transaction, ids ...any) error {
	idList, err := normalizeIDs(ids)
	if err != nil {
		return err
	}

	_, err = r.httpClient.Do(ctx, &http.Request{
		Method:  nethttp.MethodDelete,
		Path:    r.entityPath,
		Body:    idList,
		Headers: transactionHeader(tx),
	})
	if err != nil {
		return wrapErr(err, "could not delete the entities")
	}

	return nil
}

// ImportData implements hk.RepositoryClient.ImportData.
func (r *Repository) ImportData(ctx context.Context, source io.Reader, datatype string, opts *hk.ImportOptions) error {
	data, err := io.ReadAll(source)
	if err != nil {
		return wrapErr(err, "could not read import data")
	}

	if opts == nil {
		opts = &hk.ImportOptions{}
	}

	if opts.AsHK {
		var entities []map[string]any
		if err := json.Unmarshal(data, &entities); err != nil {
			return wrapErr(err, "could not parse import data")
		}

		items := make([]any, 0, len(entities))
		for _, entity := range entities {
			items = append(items, entity)
		}

		return r.AddEntities(ctx, nil, items...)
	}

	headers := map[string]string{
		"Content-Length": strconv.Itoa(len(data)),
	}

	if opts.Context != nil {
		parent, err := contextID(opts.Context)
		if err != nil {
			return err
		}

		headers[constants.HeaderContextParent] = parent
	}

	_, err = r.httpClient.Do(ctx, &http.Request{
		Method:      nethttp.MethodPut,
		Path:        r.rdfPath,
		Query:       opts.Options,
		RawBody:     data,
		ContentType: datatype,
		Headers:     headers,
	})
	if err != nil {
		return wrapErr(err, "could not import the data")
	}

	return nil
}

// Clear implements hk.RepositoryClient.Clear. Entities added between the
// fetch and the delete survive.
func (r *Repository) Clear(ctx context.Context) error {
	entities, err := r.GetEntities(ctx, map[string]any{})
	if err != nil {
		return err
	}

	ids := make([]any, 0, len(entities))
	for _, entity := range entities {
		ids = append(ids, entity)
	}

	return r.DeleteEntities(ctx, nil, ids...)
}

// HyQL implements hk.RepositoryClient.HyQL. Unlike GetEntities, the query
// endpoint answers with a plain array.
func (r *Repository) HyQL(ctx context.Context, query string) ([]hklib.Entity, error) {
	resp, err := r.httpClient.Do(ctx, &http.Request{
		Method:      nethttp.MethodPost,
		Path:        r.queryPath,
		RawBody:     []byte(query),
		ContentType: constants.ContentTypePlainText,
	})
	if err != nil {
		return nil, wrapErr(err, "could not query the repository")
	}

	var rows []map[string]any
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		return nil, wrapErr(err, "could not query the repository")
	}

	entities, err := hklib.DecodeAll(rows)
	if err != nil {
		return nil, wrapErr(err, "could not query the repository")
	}

	return entities, nil
}

// normalizeEntities converts the accepted input shapes into wire-form maps.
func normalizeEntities(entities []any) ([]map[string]any, error) {
	payload := make([]map[string]any, 0, len(entities))

	for _, item := range entities {
		switch e := item.(type) {
		case hklib.Entity:
			payload = append(payload, e.ToMap())
		case map[string]any:
			payload = append(payload, e)
		default:
			return nil, hk.ErrInvalidEntityType
		}
	}

	return payload, nil
}

// normalizeIDs reduces entities to their ids and passes id strings through.
func normalizeIDs(ids []any) ([]string, error) {
	idList := make([]string, 0, len(ids))

	for _, item := range ids {
		switch v := item.(type) {
		case string:
			idList = append(idList, v)
		case hklib.Entity:
			idList = append(idList, v.EntityID())
		default:
			return nil, hk.ErrInvalidIDType
		}
	}

	return idList, nil
}

func transactionHeader(tx *hk.Transaction) map[string]string {
	if tx == nil || tx.ID == "" {
		return nil
	}

	return map[string]string{constants.HeaderTransactionID: tx.ID}
}

func contextID(parent any) (string, error) {
	switch c := parent.(type) {
	case string:
		return c, nil
	case *hklib.Context:
		return c.ID, nil
	default:
		return "", hk.ErrInvalidIDType
	}
}
