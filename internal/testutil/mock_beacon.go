// Package testutil provides testing utilities for the blobs downloader.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/meetmangukiya/blobs-downloader/pkg/beacon"
)

// MockBeacon is a configurable mock beacon node for testing.
type MockBeacon struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount   int
	requestsByPath map[string]int
}

// NewMockBeacon creates a new mock beacon node. Paths without a configured
// handler respond 404, which the client treats as a missed slot.
func NewMockBeacon() *MockBeacon {
	mock := &MockBeacon{
		handlers:       make(map[string]http.HandlerFunc),
		requestsByPath: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.requestsByPath[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBeacon) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBeacon) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBeacon) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.requestsByPath = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBeacon) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetSidecars configures the blob sidecars served for a slot.
func (m *MockBeacon) SetSidecars(slot uint64, sidecars []beacon.Sidecar) {
	body, _ := json.Marshal(beacon.SidecarsResponse{Data: sidecars})
	m.setJSON(fmt.Sprintf("/eth/v1/beacon/blob_sidecars/%d", slot), body)
}

// SetHeader configures the canonical header root served for a slot.
func (m *MockBeacon) SetHeader(slot uint64, rootHex string) {
	body, _ := json.Marshal(beacon.HeaderResponse{Data: beacon.HeaderEntry{
		Root:      rootHex,
		Canonical: true,
		Header:    headerAt(slot),
	}})
	m.setJSON(fmt.Sprintf("/eth/v1/beacon/headers/%d", slot), body)
}

// SetHeadSlot configures the head header listing to report the given slot.
func (m *MockBeacon) SetHeadSlot(slot uint64) {
	body, _ := json.Marshal(beacon.HeadersResponse{Data: []beacon.HeaderEntry{{
		Root:      "0x" + fmt.Sprintf("%064x", slot),
		Canonical: true,
		Header:    headerAt(slot),
	}}})
	m.setJSON("/eth/v1/beacon/headers", body)
}

// SetEmptyHead configures the head header listing to be empty.
func (m *MockBeacon) SetEmptyHead() {
	body, _ := json.Marshal(beacon.HeadersResponse{Data: []beacon.HeaderEntry{}})
	m.setJSON("/eth/v1/beacon/headers", body)
}

// PrimeSlot configures a healthy slot: n sidecars plus a header whose root is
// derived from the slot number.
func (m *MockBeacon) PrimeSlot(slot uint64, n int) string {
	rootHex := "0x" + fmt.Sprintf("%064x", slot)

	var sidecars []beacon.Sidecar
	for i := 0; i < n; i++ {
		sidecars = append(sidecars, beacon.Sidecar{
			Index:             fmt.Sprintf("%d", i),
			Blob:              "0xdead",
			KzgCommitment:     "0xc0",
			KzgProof:          "0xp0",
			SignedBlockHeader: beacon.SignedBeaconBlockHeader{Message: headerAt(slot).Message, Signature: "0xsig"},
		})
	}

	m.SetSidecars(slot, sidecars)
	m.SetHeader(slot, rootHex)
	return rootHex
}

// RequestsFor returns the number of requests made to a path.
func (m *MockBeacon) RequestsFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestsByPath[path]
}

func (m *MockBeacon) setJSON(path string, body []byte) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}

func headerAt(slot uint64) beacon.SignedBeaconBlockHeader {
	return beacon.SignedBeaconBlockHeader{
		Message: beacon.BeaconBlockHeader{
			Slot:          fmt.Sprintf("%d", slot),
			ProposerIndex: "1",
			ParentRoot:    "0xaa",
			StateRoot:     "0xbb",
			BodyRoot:      "0xcc",
		},
		Signature: "0xsig",
	}
}
