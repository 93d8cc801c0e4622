package transport

// PartyShareWire is the wire form of sharecodec.PartyShare plus the
// per-column bit boundaries of the row it carries: Offsets[i]/Lengths[i]
// give the starting bit and width of column i within the flattened A/B
// blocks, mirroring how original_source/fesca/data_owner/src/types.rs
// keeps a SharedRow as a Vec<SharedBitString> (one entry per column)
// rather than a single opaque blob (spec.md §6).
type PartyShareWire struct {
	A       []byte   `json:"a"`
	B       []byte   `json:"b"`
	Offsets []uint32 `json:"offsets"`
	Lengths []uint32 `json:"lengths"`
}

// ShareRowsRequest carries one table's worth of a single party's shares
// from a data owner to a computing node, per spec.md §6's ingestion flow.
// TableID and PartyID mirror original_source's SharedPartyData{party_id,
// table_id, rows}; RowCount is carried explicitly rather than only
// implied by len(Rows) so a node can sanity-check a truncated transfer.
type ShareRowsRequest struct {
	QueryID  string           `json:"query_id"`
	Owner    string           `json:"owner"`
	Table    string           `json:"table"`
	TableID  uint32           `json:"table_id"`
	PartyID  int              `json:"party_id"`
	RowCount int              `json:"row_count"`
	Rows     []PartyShareWire `json:"rows"`
}

// ShareRowsResponse acknowledges ingestion with a success boolean plus a
// diagnostic string and the storage path chosen for the shares, per
// spec.md §6.
type ShareRowsResponse struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// RhoRequest carries one correlated-randomness ring message for one AND
// gate, named SendRho1/SendRho2/SendRho3 after the three directed edges
// of the ring (original_source/fesca/computing_node/src/grpc.rs keeps
// them as separate RPCs rather than one parameterised call, and this
// module keeps that shape so the method names stay self-describing).
type RhoRequest struct {
	QueryID   string `json:"query_id"`
	GateIndex uint64 `json:"gate_index"`
	Rho       byte   `json:"rho"`
}

// RhoResponse acknowledges receipt of one RhoRequest with a success
// boolean and a diagnostic string (spec.md §6).
type RhoResponse struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
}

// VerifyCorrelationRequest asks a peer to confirm its view of a triple
// component matches the caller's, used by tests and diagnostics rather
// than the hot evaluation path.
type VerifyCorrelationRequest struct {
	QueryID   string `json:"query_id"`
	GateIndex uint64 `json:"gate_index"`
	Value     byte   `json:"value"`
}

// VerifyCorrelationResponse reports whether the values matched, along
// with a diagnostic string (spec.md §6).
type VerifyCorrelationResponse struct {
	Consistent bool   `json:"consistent"`
	Message    string `json:"message"`
}
