package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weftlabs/weft/internal/event"
)

// Transcript defines a sequence of ingestion steps against one timeline set.
type Transcript struct {
	// Name uniquely identifies this transcript (and names its golden file).
	Name string `yaml:"name" json:"name"`

	// Room is the room identifier for the set.
	Room string `yaml:"room" json:"room"`

	// TimelineSupport enables retention of historical timelines.
	TimelineSupport bool `yaml:"timeline_support,omitempty" json:"timeline_support,omitempty"`

	// FilterTypes, when non-empty, installs a type filter passing only
	// the listed event types.
	FilterTypes []string `yaml:"filter_types,omitempty" json:"filter_types,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is a single ingestion step. Exactly one field must be set.
type Step struct {
	Seed     *SeedStep     `yaml:"seed,omitempty" json:"seed,omitempty"`
	Link     *LinkStep     `yaml:"link,omitempty" json:"link,omitempty"`
	Backfill *BackfillStep `yaml:"backfill,omitempty" json:"backfill,omitempty"`
	Live     *LiveStep     `yaml:"live,omitempty" json:"live,omitempty"`
	Gap      *GapStep      `yaml:"gap,omitempty" json:"gap,omitempty"`
	Remove   *RemoveStep   `yaml:"remove,omitempty" json:"remove,omitempty"`
}

// Kind names the step variant, for journaling and error messages.
func (s Step) Kind() (string, error) {
	switch {
	case s.Seed != nil:
		return "seed", nil
	case s.Link != nil:
		return "link", nil
	case s.Backfill != nil:
		return "backfill", nil
	case s.Live != nil:
		return "live", nil
	case s.Gap != nil:
		return "gap", nil
	case s.Remove != nil:
		return "remove", nil
	default:
		return "", fmt.Errorf("empty transcript step")
	}
}

// Payload serializes the step body to JSON for the ingest journal.
func (s Step) Payload() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal step payload: %w", err)
	}
	return string(b), nil
}

// SeedStep allocates a new historical timeline and forward-fills it.
// Requires timeline support.
type SeedStep struct {
	// State seeds both edge snapshots before any events are added.
	State []EventSpec `yaml:"state,omitempty" json:"state,omitempty"`

	// Events are forward-filled into the new timeline.
	Events []EventSpec `yaml:"events,omitempty" json:"events,omitempty"`

	// Token, if set, becomes the new timeline's backward token.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`
}

// LinkStep pre-establishes a mutual neighbor link between two timelines,
// From preceding To. Used to set up graph shapes the join engine is then
// exercised against.
type LinkStep struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// BackfillStep ingests a paginated batch into a target timeline.
type BackfillStep struct {
	// Target is the handle of the timeline to start from.
	Target string `yaml:"target" json:"target"`

	// ToStart selects backward pagination (events prepended).
	ToStart bool `yaml:"to_start,omitempty" json:"to_start,omitempty"`

	// Token is the pagination token beyond the batch.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`

	Events []EventSpec `yaml:"events" json:"events"`
}

// LiveStep ingests one real-time event.
type LiveStep struct {
	Event EventSpec `yaml:"event" json:"event"`

	// Strategy is "ignore" (default) or "replace".
	Strategy string `yaml:"strategy,omitempty" json:"strategy,omitempty"`
}

// GapStep resets the live timeline with a new backward token.
type GapStep struct {
	Token string `yaml:"token,omitempty" json:"token,omitempty"`
}

// RemoveStep removes one event by ID.
type RemoveStep struct {
	Event string `yaml:"event" json:"event"`
}

// EventSpec describes an event to construct. Only ID is required.
type EventSpec struct {
	ID        string         `yaml:"id" json:"id"`
	Type      string         `yaml:"type,omitempty" json:"type,omitempty"`
	Sender    string         `yaml:"sender,omitempty" json:"sender,omitempty"`
	StateKey  *string        `yaml:"state_key,omitempty" json:"state_key,omitempty"`
	Timestamp int64          `yaml:"ts,omitempty" json:"ts,omitempty"`
	Content   map[string]any `yaml:"content,omitempty" json:"content,omitempty"`

	// Encrypted marks the event as carrying encrypted-payload state.
	Encrypted bool `yaml:"encrypted,omitempty" json:"encrypted,omitempty"`
}

// Build constructs the event described by the spec.
func (es EventSpec) Build(roomID string) (*event.Event, error) {
	if es.ID == "" {
		return nil, fmt.Errorf("event spec missing id")
	}

	ev := &event.Event{
		ID:        es.ID,
		Type:      es.Type,
		Sender:    es.Sender,
		RoomID:    roomID,
		Timestamp: es.Timestamp,
		StateKey:  es.StateKey,
	}
	if ev.Type == "" {
		ev.Type = event.TypeMessage
	}
	if ev.Sender == "" {
		ev.Sender = "@sender:example.org"
	}
	if es.Content != nil {
		content, err := json.Marshal(es.Content)
		if err != nil {
			return nil, fmt.Errorf("marshal content for %s: %w", es.ID, err)
		}
		ev.Content = content
	}
	if es.Encrypted {
		ev.Encryption = &event.EncryptionInfo{Algorithm: "m.megolm.v1.aes-sha2"}
	}
	return ev, nil
}

// Load reads a transcript from a YAML file.
func Load(path string) (*Transcript, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	var tr Transcript
	if err := yaml.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("load transcript %s: %w", path, err)
	}
	if tr.Room == "" {
		return nil, fmt.Errorf("load transcript %s: missing room", path)
	}
	return &tr, nil
}
