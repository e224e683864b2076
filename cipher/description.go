package cipher

import (
	"encoding/json"
	"sort"

	"recordcrypt/record-encryption/materials"
)

// DescriptionToBytes converts a material description to a deterministic byte
// representation, used as additional authenticated data and as signing input.
// Encrypt and decrypt must see byte-identical output for the same description.
func DescriptionToBytes(description materials.MaterialDescription) []byte {
	keys := make([]string, 0, len(description))
	for k := range description {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sortedMap := make(map[string]string, len(description))
	for _, k := range keys {
		sortedMap[k] = description[k]
	}

	data, err := json.Marshal(sortedMap)
	if err != nil {
		// Cannot happen for a map of plain strings.
		return []byte{}
	}

	return data
}
