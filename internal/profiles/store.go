package profiles

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruminaider/ccmate/internal/claudecode"
	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/ruminaider/ccmate/internal/logging"
	"github.com/ruminaider/ccmate/internal/merge"
	"github.com/ruminaider/ccmate/internal/paths"
)

// resetPayload is merged into the live settings by ResetToOriginal.
var resetPayload = json.RawMessage(`{"env":{}}`)

// Store manages stores.json and mirrors the active profile into the live
// settings file. Every call re-reads the file and writes it back whole.
type Store struct {
	Layout paths.Layout
	Log    logging.Logger

	now   func() time.Time
	newID func() string
}

func NewStore(l paths.Layout, log logging.Logger) *Store {
	return &Store{Layout: l, Log: log, now: time.Now, newID: shortID}
}

// shortID returns 8 hex characters of a random uuid.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *Store) load() (*Collection, error) {
	raw, err := claudecode.ReadJSON(s.Layout.StoresFile())
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	var c Collection
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: parsing profiles: %w", ccerrors.ErrMalformedInput, err)
	}
	return &c, nil
}

func (s *Store) save(c *Collection) error {
	if c.Configs == nil {
		c.Configs = []Profile{}
	}
	if err := claudecode.WriteJSON(s.Layout.StoresFile(), c); err != nil {
		return fmt.Errorf("writing profiles: %w", err)
	}
	return nil
}

// ensureNotification fills in the default notification settings and reports
// whether it did.
func ensureNotification(c *Collection) bool {
	if c.Notification != nil {
		return false
	}
	n := DefaultNotification()
	c.Notification = &n
	return true
}

// applyLive partial-merges settings into the live settings file.
func (s *Store) applyLive(settings json.RawMessage) error {
	path := s.Layout.UserSettings()
	if err := merge.ApplyToFile(path, settings); err != nil {
		return fmt.Errorf("updating live settings: %w", err)
	}
	s.Log.Infof("applied profile settings to %s", path)
	return nil
}

// unlock runs the credential unlock step. Failures are only logged.
func (s *Store) unlock() {
	if err := claudecode.UnlockExtension(s.Layout.CredentialFile()); err != nil {
		s.Log.Warnf("unlocking extension: %v", err)
	}
}

func validSettings(settings json.RawMessage) (json.RawMessage, error) {
	if len(settings) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(settings) {
		return nil, fmt.Errorf("%w: profile settings are not valid JSON", ccerrors.ErrMalformedInput)
	}
	return settings, nil
}

// List returns every profile ordered by creation time. The default
// notification settings are persisted on first read.
func (s *Store) List() ([]Profile, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	if ensureNotification(c) {
		if err := s.save(c); err != nil {
			return nil, err
		}
		s.Log.Debugf("added default notification settings to %s", s.Layout.StoresFile())
	}
	return c.sorted(), nil
}

// Create adds a profile. The first profile ever created becomes active; at
// that moment an existing live settings file is first captured as an
// "Original Config" profile. An empty id is generated.
func (s *Store) Create(id, title string, settings json.RawMessage) (Profile, error) {
	settings, err := validSettings(settings)
	if err != nil {
		return Profile{}, err
	}
	c, err := s.load()
	if err != nil {
		return Profile{}, err
	}
	ensureNotification(c)

	if id == "" {
		id = s.newID()
	}
	if c.index(id) >= 0 {
		return Profile{}, fmt.Errorf("%w: profile %q", ccerrors.ErrAlreadyExists, id)
	}

	now := s.now().Unix()
	activate := len(c.Configs) == 0
	if activate {
		live := s.Layout.UserSettings()
		if claudecode.Exists(live) {
			current, err := claudecode.ReadJSON(live)
			if err != nil {
				return Profile{}, fmt.Errorf("capturing live settings: %w", err)
			}
			c.Configs = append(c.Configs, Profile{
				ID:        s.newID(),
				Title:     OriginalTitle,
				CreatedAt: now,
				Settings:  current,
			})
			s.Log.Infof("captured %s as %q", live, OriginalTitle)
		}
		if err := s.applyLive(settings); err != nil {
			return Profile{}, err
		}
	}

	p := Profile{ID: id, Title: title, CreatedAt: now, Settings: settings, Using: activate}
	c.Configs = append(c.Configs, p)
	if err := s.save(c); err != nil {
		return Profile{}, err
	}

	s.unlock()
	return p, nil
}

// Update replaces a profile's title and settings. When the profile is active
// the live settings file is updated as well.
func (s *Store) Update(id, title string, settings json.RawMessage) (Profile, error) {
	settings, err := validSettings(settings)
	if err != nil {
		return Profile{}, err
	}
	c, err := s.load()
	if err != nil {
		return Profile{}, err
	}
	i := c.index(id)
	if i < 0 {
		return Profile{}, fmt.Errorf("%w: profile %q", ccerrors.ErrNotFound, id)
	}

	c.Configs[i].Title = title
	c.Configs[i].Settings = settings
	if c.Configs[i].Using {
		if err := s.applyLive(settings); err != nil {
			return Profile{}, err
		}
	}
	if err := s.save(c); err != nil {
		return Profile{}, err
	}

	s.unlock()
	return c.Configs[i], nil
}

// Delete removes a profile. The live settings file is not touched, even when
// the deleted profile was active.
func (s *Store) Delete(id string) error {
	c, err := s.load()
	if err != nil {
		return err
	}
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: profile %q", ccerrors.ErrNotFound, id)
	}
	c.Configs = append(c.Configs[:i], c.Configs[i+1:]...)
	return s.save(c)
}

// SetActive makes id the only active profile and merges its settings into
// the live settings file.
func (s *Store) SetActive(id string) error {
	c, err := s.load()
	if err != nil {
		return err
	}
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: profile %q", ccerrors.ErrNotFound, id)
	}
	for j := range c.Configs {
		c.Configs[j].Using = j == i
	}
	if err := s.applyLive(c.Configs[i].Settings); err != nil {
		return err
	}
	return s.save(c)
}

// ResetToOriginal deactivates every profile and clears env in the live
// settings file. Other live keys are kept, and a live file that is not a JSON
// object is left as it is.
func (s *Store) ResetToOriginal() error {
	c, err := s.load()
	if err != nil {
		return err
	}
	for j := range c.Configs {
		c.Configs[j].Using = false
	}
	if err := s.save(c); err != nil {
		return err
	}

	live := s.Layout.UserSettings()
	current, err := claudecode.ReadJSON(live)
	if err != nil {
		return fmt.Errorf("updating live settings: %w", err)
	}
	if _, ok := claudecode.AsObject(current); !ok {
		s.Log.Warnf("%s is not a JSON object, leaving it unchanged", live)
		return nil
	}
	return s.applyLive(resetPayload)
}

// Active returns the active profile, or nil when none is.
func (s *Store) Active() (*Profile, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Using {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Get returns the profile with id.
func (s *Store) Get(id string) (Profile, error) {
	list, err := s.List()
	if err != nil {
		return Profile{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: profile %q", ccerrors.ErrNotFound, id)
}

// DistinctID returns the installation's stable random identifier, creating
// it on first use.
func (s *Store) DistinctID() (string, error) {
	c, err := s.load()
	if err != nil {
		return "", err
	}
	if c.DistinctID != "" {
		return c.DistinctID, nil
	}
	c.DistinctID = uuid.NewString()
	if err := s.save(c); err != nil {
		return "", err
	}
	return c.DistinctID, nil
}

// Notification returns the stored notification settings, or the defaults.
func (s *Store) Notification() (NotificationSettings, error) {
	c, err := s.load()
	if err != nil {
		return NotificationSettings{}, err
	}
	ensureNotification(c)
	return *c.Notification, nil
}

// UpdateNotification replaces the notification settings.
func (s *Store) UpdateNotification(n NotificationSettings) error {
	c, err := s.load()
	if err != nil {
		return err
	}
	if n.EnabledHooks == nil {
		n.EnabledHooks = []string{}
	}
	c.Notification = &n
	return s.save(c)
}
