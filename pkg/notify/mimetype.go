package notify

import (
	"fmt"
	"sort"
)

type mimeMap map[string]string

// String - one header per line, sorted by name
func (m mimeMap) String() string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	mimeString := ""
	for _, key := range keys {
		mimeString += fmt.Sprintf("%s: %s;\n", key, m[key])
	}
	return mimeString
}
