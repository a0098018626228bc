package models

import (
	"encoding/json"
	"testing"
)

func TestPostFieldsPresence(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantTitle     Optional[string]
		wantReactions bool
		wantViews     Optional[int]
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"title":null,"reactions":null,"views":null}`},
		{name: "empty string is set", body: `{"title":""}`, wantTitle: Some("")},
		{name: "zero views is set", body: `{"views":0}`, wantViews: Some(0)},
		{name: "empty reactions is set", body: `{"reactions":{}}`, wantReactions: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields PostFields
			if err := json.Unmarshal([]byte(tt.body), &fields); err != nil {
				t.Fatal(err)
			}
			if fields.Title != tt.wantTitle {
				t.Errorf("Title = %+v, want %+v", fields.Title, tt.wantTitle)
			}
			if fields.Views != tt.wantViews {
				t.Errorf("Views = %+v, want %+v", fields.Views, tt.wantViews)
			}
			if fields.Reactions.Set != tt.wantReactions {
				t.Errorf("Reactions.Set = %v, want %v", fields.Reactions.Set, tt.wantReactions)
			}
		})
	}
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var fields PostFields
	if err := json.Unmarshal([]byte(`{"views":"many"}`), &fields); err == nil {
		t.Fatal("expected error for string views")
	}
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3)})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":3,"b":null}` {
		t.Errorf("got %s", out)
	}
}
