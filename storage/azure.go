package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// TableBackend persists snapshots to an Azure Storage table, one entity per
// widget key (PartitionKey == RowKey == key).
type TableBackend struct {
	table *aztables.Client
}

// NewTableBackend creates a TableBackend from the given connection string.
func NewTableBackend(connStr, table string) (*TableBackend, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	return &TableBackend{table: svc.NewClient(table)}, nil
}

type snapshotEntity struct {
	aztables.Entity
	Data string `json:"Data"`
}

func decodeSnapshotEntity(data []byte) ([]byte, error) {
	var ent snapshotEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return nil, err
	}
	return []byte(ent.Data), nil
}

func (b *TableBackend) Read(ctx context.Context, key string) ([]byte, error) {
	resp, err := b.table.GetEntity(ctx, key, key, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeSnapshotEntity(resp.Value)
}

func (b *TableBackend) Write(ctx context.Context, key string, data []byte) error {
	ent := map[string]any{
		"PartitionKey": key,
		"RowKey":       key,
		"Data":         string(data),
	}
	payload, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	_, err = b.table.UpsertEntity(ctx, payload, nil)
	return err
}

func (b *TableBackend) Delete(ctx context.Context, key string) error {
	_, err := b.table.DeleteEntity(ctx, key, key, nil)
	if err != nil && isStatus(err, http.StatusNotFound) {
		return nil
	}
	return err
}

func isStatus(err error, code int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == code
}
