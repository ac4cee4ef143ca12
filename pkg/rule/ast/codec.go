package ast

import (
	"bytes"
	"encoding/json"
	"fmt"

	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

// Interchange keys.
const (
	KeyType      = "type"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyCondition = "condition"
)

// ToMap converts n to its interchange mapping. It returns an
// InvalidNodeError if the tree contains a nil node.
func ToMap(n Node) (map[string]any, error) {
	if IsNil(n) {
		return nil, &ruleerrors.InvalidNodeError{Reason: "nil node"}
	}
	switch v := n.(type) {
	case *Conjunction:
		return binaryMap(NodeTypeAnd, v.Left, v.Right)
	case *Disjunction:
		return binaryMap(NodeTypeOr, v.Left, v.Right)
	case *Condition:
		return map[string]any{
			KeyType:      string(NodeTypeCondition),
			KeyCondition: v.Text,
		}, nil
	default:
		return nil, &ruleerrors.InvalidNodeError{Reason: "nil or unknown node"}
	}
}

func binaryMap(t NodeType, left, right Node) (map[string]any, error) {
	l, err := ToMap(left)
	if err != nil {
		return nil, err
	}
	r, err := ToMap(right)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		KeyType:  string(t),
		KeyLeft:  l,
		KeyRight: r,
	}, nil
}

// FromMap builds a tree from its interchange mapping. Missing children,
// unknown tags and wrongly typed values fail with an InvalidNodeError.
func FromMap(m map[string]any) (Node, error) {
	if m == nil {
		return nil, &ruleerrors.InvalidNodeError{Reason: "node mapping is nil"}
	}

	rawType, ok := m[KeyType]
	if !ok {
		return nil, &ruleerrors.InvalidNodeError{Reason: `missing "type"`}
	}
	tag, ok := rawType.(string)
	if !ok {
		return nil, &ruleerrors.InvalidNodeError{Reason: fmt.Sprintf(`"type" must be a string, got %T`, rawType)}
	}

	switch NodeType(tag) {
	case NodeTypeAnd, NodeTypeOr:
		left, err := childFromMap(tag, m, KeyLeft)
		if err != nil {
			return nil, err
		}
		right, err := childFromMap(tag, m, KeyRight)
		if err != nil {
			return nil, err
		}
		if NodeType(tag) == NodeTypeAnd {
			return NewConjunction(left, right), nil
		}
		return NewDisjunction(left, right), nil

	case NodeTypeCondition:
		raw, ok := m[KeyCondition]
		if !ok {
			return nil, &ruleerrors.InvalidNodeError{Type: tag, Reason: `missing "condition"`}
		}
		text, ok := raw.(string)
		if !ok {
			return nil, &ruleerrors.InvalidNodeError{Type: tag, Reason: fmt.Sprintf(`"condition" must be a string, got %T`, raw)}
		}
		return NewCondition(text), nil

	default:
		return nil, &ruleerrors.InvalidNodeError{Type: tag, Reason: "unknown node type"}
	}
}

func childFromMap(tag string, m map[string]any, key string) (Node, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, &ruleerrors.InvalidNodeError{Type: tag, Reason: fmt.Sprintf("missing %q", key)}
	}
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, &ruleerrors.InvalidNodeError{Type: tag, Reason: fmt.Sprintf("%q must be an object, got %T", key, raw)}
	}
	return FromMap(child)
}

// Marshal encodes n as interchange JSON.
func Marshal(n Node) ([]byte, error) {
	m, err := ToMap(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// Unmarshal decodes interchange JSON into a tree.
func Unmarshal(data []byte) (Node, error) {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, &ruleerrors.InvalidNodeError{Reason: fmt.Sprintf("decode interchange JSON: %v", err)}
	}
	return FromMap(m)
}

// MarshalJSON implements json.Marshaler.
func (n *Conjunction) MarshalJSON() ([]byte, error) { return Marshal(n) }

// MarshalJSON implements json.Marshaler.
func (n *Disjunction) MarshalJSON() ([]byte, error) { return Marshal(n) }

// MarshalJSON implements json.Marshaler.
func (n *Condition) MarshalJSON() ([]byte, error) { return Marshal(n) }
