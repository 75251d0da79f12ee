package beacon

// API payload types for the beacon node endpoints this tool consumes.
// Numeric and binary fields are carried exactly as the API exchanges them:
// decimal strings for integers, 0x-prefixed hex strings for binary blobs.

// SidecarsResponse is the body of GET /eth/v1/beacon/blob_sidecars/{slot}.
type SidecarsResponse struct {
	Data []Sidecar `json:"data"`
}

// Sidecar is one blob commitment unit tied to a slot's block.
type Sidecar struct {
	Index                    string                  `json:"index"`
	Blob                     string                  `json:"blob"`
	KzgCommitment            string                  `json:"kzg_commitment"`
	KzgProof                 string                  `json:"kzg_proof"`
	SignedBlockHeader        SignedBeaconBlockHeader `json:"signed_block_header"`
	CommitmentInclusionProof []string                `json:"kzg_commitment_inclusion_proof"`
}

// SignedBeaconBlockHeader is a block header together with the proposer signature.
type SignedBeaconBlockHeader struct {
	Message   BeaconBlockHeader `json:"message"`
	Signature string            `json:"signature"`
}

// BeaconBlockHeader is the summary header embedded in sidecars and header listings.
type BeaconBlockHeader struct {
	Slot          string `json:"slot"`
	ProposerIndex string `json:"proposer_index"`
	ParentRoot    string `json:"parent_root"`
	StateRoot     string `json:"state_root"`
	BodyRoot      string `json:"body_root"`
}

// HeaderEntry is one entry of a block header listing.
type HeaderEntry struct {
	Root      string                  `json:"root"`
	Canonical bool                    `json:"canonical"`
	Header    SignedBeaconBlockHeader `json:"header"`
}

// HeadersResponse is the body of GET /eth/v1/beacon/headers.
type HeadersResponse struct {
	ExecutionOptimistic bool          `json:"execution_optimistic"`
	Finalized           bool          `json:"finalized"`
	Data                []HeaderEntry `json:"data"`
}

// HeaderResponse is the body of GET /eth/v1/beacon/headers/{slot}.
type HeaderResponse struct {
	Data HeaderEntry `json:"data"`
}
