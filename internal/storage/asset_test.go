package storage

import (
	"fmt"
	"testing"

	"github.com/pixil98/go-testutil"
)

type testSpec struct {
	valid bool
}

func (s *testSpec) Validate() error {
	if !s.valid {
		return fmt.Errorf("spec is invalid")
	}
	return nil
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset  Asset[*testSpec]
		expErr string
	}{
		"valid asset": {
			asset: Asset[*testSpec]{Version: 1, Identifier: "look", Spec: &testSpec{valid: true}},
		},
		"version not set": {
			asset:  Asset[*testSpec]{Identifier: "look", Spec: &testSpec{valid: true}},
			expErr: "version must be set",
		},
		"empty identifier": {
			asset:  Asset[*testSpec]{Version: 1, Spec: &testSpec{valid: true}},
			expErr: "id must be set",
		},
		"identifier with spaces": {
			asset:  Asset[*testSpec]{Version: 1, Identifier: "look around", Spec: &testSpec{valid: true}},
			expErr: "id must be alphanumeric",
		},
		"invalid spec": {
			asset:  Asset[*testSpec]{Version: 1, Identifier: "look", Spec: &testSpec{}},
			expErr: "spec is invalid",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}
