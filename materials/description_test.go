package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeDescriptions(t *testing.T) {
	tests := []struct {
		name     string
		fixed    MaterialDescription
		perCall  MaterialDescription
		expected MaterialDescription
	}{
		{
			name:     "per-call entries add new keys",
			fixed:    MaterialDescription{ContentKeyAlgorithm: "AES/128"},
			perCall:  MaterialDescription{"tenant": "acme"},
			expected: MaterialDescription{ContentKeyAlgorithm: "AES/128", "tenant": "acme"},
		},
		{
			name:     "fixed entries are not overridable",
			fixed:    MaterialDescription{ContentKeyAlgorithm: "AES/128"},
			perCall:  MaterialDescription{ContentKeyAlgorithm: "AES/256"},
			expected: MaterialDescription{ContentKeyAlgorithm: "AES/128"},
		},
		{
			name:     "nil inputs",
			fixed:    nil,
			perCall:  nil,
			expected: MaterialDescription{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeDescriptions(tt.fixed, tt.perCall)
			assert.Equal(t, tt.expected, merged)
		})
	}
}

func TestMergeDescriptionsDoesNotMutateInputs(t *testing.T) {
	fixed := MaterialDescription{"a": "1"}
	perCall := MaterialDescription{"b": "2"}

	merged := MergeDescriptions(fixed, perCall)
	merged["c"] = "3"

	assert.Equal(t, MaterialDescription{"a": "1"}, fixed)
	assert.Equal(t, MaterialDescription{"b": "2"}, perCall)
}

func TestCloneIsIndependent(t *testing.T) {
	original := MaterialDescription{"a": "1"}
	clone := original.Clone()
	clone["a"] = "changed"

	assert.Equal(t, "1", original["a"])
}
