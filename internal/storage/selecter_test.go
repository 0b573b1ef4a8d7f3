package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal"
)

var errMockInvalid = errors.New("mock spec is invalid")

type mockSelectableSpec struct {
	name  string
	valid bool
}

func (s *mockSelectableSpec) Validate() error {
	if !s.valid {
		return errMockInvalid
	}
	return nil
}

func (s *mockSelectableSpec) Selector() string {
	return s.name
}

type mockSelectableStorer struct {
	records map[string]*mockSelectableSpec
}

func (m *mockSelectableStorer) Save(id string, o *mockSelectableSpec) error {
	m.records[id] = o
	return nil
}

func (m *mockSelectableStorer) Get(id string) *mockSelectableSpec {
	return m.records[id]
}

func (m *mockSelectableStorer) GetAll() map[string]*mockSelectableSpec {
	return m.records
}

type mockReadWriter struct {
	readBuf  *strings.Reader
	writeBuf bytes.Buffer
}

func (m *mockReadWriter) Read(p []byte) (int, error)  { return m.readBuf.Read(p) }
func (m *mockReadWriter) Write(p []byte) (int, error) { return m.writeBuf.Write(p) }

func startStore() *mockSelectableStorer {
	return &mockSelectableStorer{records: map[string]*mockSelectableSpec{
		"harbour": {name: "Harbour", valid: true},
		"gate":    {name: "City Gate", valid: true},
		"forge":   {name: "Forge", valid: true},
	}}
}

func TestSelectableStorer_Select(t *testing.T) {
	ss := NewSelectableStorer(startStore())

	tests := map[string]struct {
		index int
		exp   string
	}{
		"first sorted by name": {index: 1, exp: "gate"},
		"second":               {index: 2, exp: "forge"},
		"last":                 {index: 3, exp: "harbour"},
		"zero":                 {index: 0, exp: ""},
		"negative":             {index: -1, exp: ""},
		"too large":            {index: 4, exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "id", ss.Select(tt.index), tt.exp)
		})
	}
}

func TestSelectableStorer_Build(t *testing.T) {
	many := map[string]*mockSelectableSpec{}
	for _, n := range strings.Fields("a b c d e f g h i j k l m n o p q r s t u v w x y z") {
		many[n] = &mockSelectableSpec{name: strings.Repeat(n, 30), valid: true}
	}

	tests := map[string]struct {
		records map[string]*mockSelectableSpec
		expRows int
	}{
		"empty keeps default rows": {
			records: map[string]*mockSelectableSpec{},
			expRows: defaultSelectorRowCount,
		},
		"few entries": {
			records: startStore().records,
			expRows: defaultSelectorRowCount,
		},
		"wide entries grow the rows": {
			records: many,
			expRows: 13,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ss := NewSelectableStorer(&mockSelectableStorer{records: tt.records})
			testutil.AssertEqual(t, "rows", len(ss.output), tt.expRows)
			testutil.AssertEqual(t, "len", ss.Len(), len(tt.records))
		})
	}
}

func TestSelectableStorer_Prompt(t *testing.T) {
	ss := NewSelectableStorer(startStore())
	rw := &mockReadWriter{readBuf: strings.NewReader("9\nfoo\n3\n")}

	id, val, err := ss.Prompt(internal.NewTerminal(rw), "Where do you start?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "id", id, "harbour")
	testutil.AssertEqual(t, "value", val.name, "Harbour")
	testutil.AssertEqual(t, "rejections", strings.Count(rw.writeBuf.String(), "Invalid selection!"), 2)
	testutil.AssertEqual(t, "menu", strings.Contains(rw.writeBuf.String(), " 1. City Gate"), true)
}
