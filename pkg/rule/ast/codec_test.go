package ast

import (
	"encoding/json"
	"errors"
	"testing"

	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

func TestMarshal_InterchangeShape(t *testing.T) {
	tree := NewConjunction(NewCondition("age > 18"), NewCondition("country = 'US'"))

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got["type"] != "AND" {
		t.Errorf("type = %v, want AND", got["type"])
	}
	left, ok := got["left"].(map[string]any)
	if !ok {
		t.Fatalf("left = %T, want object", got["left"])
	}
	if left["type"] != "CONDITION" || left["condition"] != "age > 18" {
		t.Errorf("left = %v, want CONDITION age > 18", left)
	}
	if _, ok := got["condition"]; ok {
		t.Error("AND node should not carry a condition key")
	}
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	trees := []Node{
		NewCondition("a > 1"),
		NewCondition(""),
		sampleTree(),
		NewDisjunction(NewCondition("x = 'a b'"), NewConjunction(NewCondition("y < 2"), NewCondition("z >= -3.5"))),
	}

	for _, tree := range trees {
		data, err := Marshal(tree)
		if err != nil {
			t.Fatalf("Marshal(%s) failed: %v", tree, err)
		}
		got, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if !Equal(tree, got) {
			t.Errorf("round trip of %s produced %s", tree, got)
		}
	}
}

func TestMarshalJSON_EmbeddedNode(t *testing.T) {
	payload := struct {
		AST Node `json:"ast"`
	}{AST: NewCondition("a = 1")}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	want := `{"ast":{"condition":"a = 1","type":"CONDITION"}}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"null", `null`},
		{"missing type", `{"condition":"a = 1"}`},
		{"non-string type", `{"type":1}`},
		{"unknown type", `{"type":"XOR","left":{},"right":{}}`},
		{"missing right", `{"type":"AND","left":{"type":"CONDITION","condition":"a = 1"}}`},
		{"child not object", `{"type":"OR","left":"a","right":{"type":"CONDITION","condition":"b = 2"}}`},
		{"missing condition", `{"type":"CONDITION"}`},
		{"condition not string", `{"type":"CONDITION","condition":5}`},
		{"nested unknown", `{"type":"AND","left":{"type":"CONDITION","condition":"a = 1"},"right":{"type":"NOT"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			var nodeErr *ruleerrors.InvalidNodeError
			if !errors.As(err, &nodeErr) {
				t.Errorf("Unmarshal() error = %v, want InvalidNodeError", err)
			}
		})
	}
}

func TestFromMap_MatchesToMap(t *testing.T) {
	m, err := ToMap(sampleTree())
	if err != nil {
		t.Fatalf("ToMap() failed: %v", err)
	}
	got, err := FromMap(m)
	if err != nil {
		t.Fatalf("FromMap() failed: %v", err)
	}
	if !Equal(sampleTree(), got) {
		t.Errorf("FromMap(ToMap(t)) = %s, want %s", got, sampleTree())
	}
}
