// Package transport implements spec.md §6's wire protocol: the two gRPC
// services computing nodes expose to each other (ring rho-exchange) and
// to data owners (receiving table shares). Message types are plain Go
// structs carried over a hand-registered JSON encoding.Codec rather than
// generated protobuf bindings, since no protoc step runs in this build;
// the ServiceDesc and client stubs below are written in the exact shape
// protoc-gen-go-grpc would otherwise generate.
package transport

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodecName is registered as a gRPC content-subtype; clients select it
// with grpc.CallContentSubtype(jsonCodecName) or by dialing with
// grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)).
const jsonCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return jsonCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
