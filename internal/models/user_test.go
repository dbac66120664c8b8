package models

import (
	"reflect"
	"testing"
)

func TestStringList_RoundTrip(t *testing.T) {
	list := StringList{"alice", "bob"}

	raw, err := list.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}

	var scanned StringList
	if err := scanned.Scan(raw); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !reflect.DeepEqual(scanned, list) {
		t.Errorf("round trip mismatch: %v vs %v", scanned, list)
	}
}

func TestStringList_NilValueIsEmptyList(t *testing.T) {
	var list StringList

	raw, err := list.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if string(raw.([]byte)) != "[]" {
		t.Errorf("nil list must serialize as [], got %s", raw)
	}

	var scanned StringList
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("scan of nil failed: %v", err)
	}
	if scanned == nil || len(scanned) != 0 {
		t.Errorf("nil column must scan to an empty list, got %v", scanned)
	}
}

func TestJSONMap_RoundTrip(t *testing.T) {
	payload := JSONMap{"name": "dashboard", "stars": float64(3)}

	raw, err := payload.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}

	var scanned JSONMap
	if err := scanned.Scan(raw); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !reflect.DeepEqual(scanned, payload) {
		t.Errorf("round trip mismatch: %v vs %v", scanned, payload)
	}
}
