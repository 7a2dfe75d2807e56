// Package merge holds the shallow, top-level JSON merge used whenever ccmate
// writes a partial settings payload into a live file.
package merge

import (
	"encoding/json"
	"fmt"

	"github.com/ruminaider/ccmate/internal/claudecode"
)

// Shallow overwrites every top-level key of dst that is present in src and
// returns dst. Nested objects are replaced, not merged. A nil dst is allocated.
func Shallow(dst, src map[string]json.RawMessage) map[string]json.RawMessage {
	if dst == nil {
		dst = make(map[string]json.RawMessage, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Partial merges src into dst key by key. When either side is not a JSON
// object the result is src unchanged.
func Partial(dst, src json.RawMessage) json.RawMessage {
	srcObj, ok := claudecode.AsObject(src)
	if !ok {
		return src
	}
	dstObj, ok := claudecode.AsObject(dst)
	if !ok {
		return src
	}
	out, err := json.Marshal(Shallow(dstObj, srcObj))
	if err != nil {
		return src
	}
	return out
}

// ApplyToFile partial-merges src into the JSON file at path. A missing file
// starts from an empty object; a file that is not valid JSON aborts the write.
func ApplyToFile(path string, src json.RawMessage) error {
	current, err := claudecode.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("merging into %s: %w", path, err)
	}
	return claudecode.WriteJSON(path, json.RawMessage(Partial(current, src)))
}

// SetMembership removes every string element equal to name from list and,
// when include is set, appends name once. Other elements, strings or not,
// keep their order.
func SetMembership(list []json.RawMessage, name string, include bool) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(list)+1)
	for _, item := range list {
		var v any
		if json.Unmarshal(item, &v) == nil {
			if s, ok := v.(string); ok && s == name {
				continue
			}
		}
		out = append(out, item)
	}
	if include {
		quoted, _ := json.Marshal(name)
		out = append(out, quoted)
	}
	return out
}
