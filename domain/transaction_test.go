package domain

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestTransactionMarshalUsesTypeField(t *testing.T) {
	tx := Transaction{ID: 1, Name: "Salary", Amount: 100, Kind: KindIncome, Date: "2026-08-29T10:00:00Z"}

	payload, err := sonic.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal transaction: %v", err)
	}

	if !strings.Contains(string(payload), `"type":"income"`) {
		t.Fatalf("expected kind under the type field, got %s", payload)
	}
}

func TestTaskMarshalKeepsFalseCompletion(t *testing.T) {
	task := Task{ID: 7, Text: "Buy milk"}

	payload, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}

	if !strings.Contains(string(payload), `"isCompleted":false`) {
		t.Fatalf("expected isCompleted to be present, got %s", payload)
	}
}
