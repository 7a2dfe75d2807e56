package profiles

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// OriginalTitle is the title of the profile that captures the live settings
// the first time a profile is created.
const OriginalTitle = "Original Config"

// Profile is a named settings snapshot.
type Profile struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	// Settings is a full or partial settings.json payload.
	Settings json.RawMessage `json:"settings"`
	Using    bool            `json:"using"`
}

// NotificationSettings controls which hook events raise desktop notifications.
type NotificationSettings struct {
	Enable       bool     `json:"enable"`
	EnabledHooks []string `json:"enabledHooks"`
}

// DefaultNotification is stored the first time the collection is read.
func DefaultNotification() NotificationSettings {
	return NotificationSettings{Enable: true, EnabledHooks: []string{"Notification"}}
}

// Collection is the on-disk shape of stores.json.
type Collection struct {
	Configs      []Profile             `json:"configs"`
	DistinctID   string                `json:"distinctId,omitempty"`
	Notification *NotificationSettings `json:"notification,omitempty"`
}

func (c *Collection) index(id string) int {
	for i := range c.Configs {
		if c.Configs[i].ID == id {
			return i
		}
	}
	return -1
}

// sorted returns the profiles ordered by creation time. Profiles created in
// the same second keep their stored order.
func (c *Collection) sorted() []Profile {
	out := make([]Profile, len(c.Configs))
	copy(out, c.Configs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

// Summary describes the top-level keys a profile sets.
// Format: "3 keys: env, model, permissions". Non-object settings read as
// "replaces settings".
func Summary(p Profile) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(p.Settings, &obj); err != nil || obj == nil {
		return "replaces settings"
	}
	if len(obj) == 0 {
		return "no keys"
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%d %s: %s", len(keys), pluralize("key", len(keys)), strings.Join(keys, ", "))
}

// pluralize returns the singular or plural form depending on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
