package normalize

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		pages []Page
		subs  map[string]string
		want  []string
	}{
		{
			name:  "single page",
			pages: []Page{{Index: 0, Text: "Check Requestor: Jane Doe\nAmount: $45.00"}},
			want:  []string{"Check Requestor: Jane Doe", "Amount: $45.00"},
		},
		{
			name: "page break between pages",
			pages: []Page{
				{Index: 0, Text: "page one"},
				{Index: 1, Text: "page two"},
			},
			want: []string{"page one", PageBreak, "page two"},
		},
		{
			name: "blank page dropped without break",
			pages: []Page{
				{Index: 0, Text: "page one"},
				{Index: 1, Text: "  \n\n "},
				{Index: 2, Text: "page three"},
			},
			want: []string{"page one", PageBreak, "page three"},
		},
		{
			name:  "crlf and whitespace collapse",
			pages: []Page{{Index: 0, Text: "Name:\tJane   Doe\r\n\r\n  Amount:  $5.00  "}},
			want:  []string{"Name: Jane Doe", "Amount: $5.00"},
		},
		{
			name:  "misread substitutions",
			pages: []Page{{Index: 0, Text: "Am0unt Requested: $45.OO"}},
			subs:  map[string]string{"Am0unt": "Amount", ".OO": ".00"},
			want:  []string{"Amount Requested: $45.00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.pages, tt.subs)
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	for _, pages := range [][]Page{
		nil,
		{},
		{{Index: 0, Text: ""}},
		{{Index: 0, Text: " \n\t\n"}},
	} {
		if _, err := Normalize(pages, nil); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Normalize(%v) err = %v, want ErrEmptyInput", pages, err)
		}
	}
}
