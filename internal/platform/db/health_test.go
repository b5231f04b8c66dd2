package db

import (
	"encoding/json"
	"testing"
)

func TestPoolStatus_JSONShape(t *testing.T) {
	b, err := json.Marshal(PoolStatus{Open: 10, Idle: 5, InUse: 5, Max: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"open":10,"idle":5,"in_use":5,"max":20}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}
