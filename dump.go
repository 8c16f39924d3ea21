// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.microglot.org/odata.go/internal/odata"
)

// dumpStruct converts a parse tree into a protobuf Struct. Every node has a
// kind and a code point span. Only leaves carry their text.
func dumpStruct(n *odata.Node) (*structpb.Struct, error) {
	return structpb.NewStruct(dumpFields(n))
}

func dumpFields(n *odata.Node) map[string]any {
	fields := map[string]any{
		"kind":  n.Kind,
		"start": n.Start,
		"end":   n.End,
	}
	if len(n.Children) == 0 {
		fields["text"] = n.Text
		return fields
	}
	children := make([]any, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, dumpFields(child))
	}
	fields["children"] = children
	return fields
}

func dumpJSON(n *odata.Node) ([]byte, error) {
	s, err := dumpStruct(n)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}
