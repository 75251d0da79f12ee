package metrics

import "testing"

func TestRegistryIsConfigured(t *testing.T) {
	if Registry == nil {
		t.Fatal("Registry should not be nil")
	}
}
