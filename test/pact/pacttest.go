//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "grocery-item-store"
	ConsumerName = "grocery-client"

	StateItemsExist = "items exist"
	StateStoreEmpty = "the item store is empty"
	StateItemExists = "item 64f1c2a9e4b0a1b2c3d4e5f6 exists"
	StateItemGone   = "no item with id 64f1c2a9e4b0a1b2c3d4ffff"
)

const (
	BasePath = "/api"

	ExistingItemID = "64f1c2a9e4b0a1b2c3d4e5f6"
	MissingItemID  = "64f1c2a9e4b0a1b2c3d4ffff"
)

// ExampleItem is the stock line every provider state seeds.
func ExampleItem() map[string]any {
	return map[string]any{
		"_id":      ExistingItemID,
		"name":     "Carrot",
		"price":    1.5,
		"quantity": 10,
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the grocery client consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
