// Package codec is the construction boundary for canonical const values: it
// parses JSON and YAML literal documents into a realm's canonical values and
// encodes values back to deterministic JSON.
//
// Member order is load-bearing. Const objects treat insertion order as part
// of their identity, so both decoders walk the document in declared order
// (JSON by token stream, YAML through yaml.Node) and the encoder emits keys
// in insertion order rather than sorted. Two strictly equal values always
// encode to identical bytes; two documents differing only in member order
// decode to distinct canonical values.
package codec
