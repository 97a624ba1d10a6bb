package storage

import (
	"testing"
)

func TestDecodeSnapshotEntity(t *testing.T) {
	data := []byte(`{"PartitionKey":"tasks","RowKey":"tasks","Data":"[{\"id\":1}]"}`)
	got, err := decodeSnapshotEntity(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != `[{"id":1}]` {
		t.Fatalf("unexpected data: %s", got)
	}
}

func TestDecodeSnapshotEntityRejectsGarbage(t *testing.T) {
	if _, err := decodeSnapshotEntity([]byte(`not json`)); err == nil {
		t.Fatal("expected an error")
	}
}
