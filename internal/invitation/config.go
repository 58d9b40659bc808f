// Package invitation defines the configuration document an owner authors for
// their wedding page, its defaults, and its validation rules. The same schema
// backs the authoring flow and the persisted record, so what the form allows
// and what storage accepts cannot drift.
package invitation

// Bounds on the variable-cardinality parts of the document.
const (
	MinEvents       = 1
	MaxEvents       = 5
	MaxPhotos       = 20
	MaxVideos       = 5
	MaxBankAccounts = 5
	MaxMessageLen   = 500
)

// Templates are the fixed page template names an invitation may select.
var Templates = []string{"classic", "rustic", "floral", "modern", "elegant"}

// Event type tags.
const (
	EventAkad      = "akad"
	EventReception = "reception"
	EventOther     = "other"
)

// EventTypes are the accepted event type tags.
var EventTypes = []string{EventAkad, EventReception, EventOther}

// Languages are the accepted page languages.
var Languages = []string{"en", "id"}

// Config is the invitation configuration document. It is persisted as one
// opaque JSON value attached to an invitation record; the core never
// interprets photo or URL references beyond treating them as strings.
type Config struct {
	Template  string   `json:"template"`
	Couple    Couple   `json:"couple"`
	Events    []Event  `json:"events"`
	Gallery   Gallery  `json:"gallery"`
	LoveStory string   `json:"love_story,omitempty"`
	Music     *Music   `json:"music,omitempty"`
	Gift      *Gift    `json:"gift,omitempty"`
	Settings  Settings `json:"settings"`
}

// Couple holds both partners.
type Couple struct {
	Bride Partner `json:"bride"`
	Groom Partner `json:"groom"`
}

// Partner describes one half of the couple. Photo is an opaque reference.
type Partner struct {
	FullName   string `json:"full_name"`
	Nickname   string `json:"nickname,omitempty"`
	FatherName string `json:"father_name,omitempty"`
	MotherName string `json:"mother_name,omitempty"`
	Photo      string `json:"photo,omitempty"`
}

// Event is one entry in the ordered event sequence.
type Event struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM, 24-hour
	Venue   string `json:"venue"`
	Address string `json:"address"`
	MapURL  string `json:"map_url,omitempty"`
}

// Gallery holds bounded lists of opaque photo and video references.
type Gallery struct {
	Photos []string `json:"photos,omitempty"`
	Videos []string `json:"videos,omitempty"`
}

// Music is an optional background track reference.
type Music struct {
	URL      string `json:"url"`
	Autoplay bool   `json:"autoplay"`
}

// Gift is the optional digital-envelope section.
type Gift struct {
	Enabled  bool          `json:"enabled"`
	Accounts []BankAccount `json:"accounts,omitempty"`
}

// BankAccount is one transfer destination shown in the gift section.
type BankAccount struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// Settings are the page-level toggles.
type Settings struct {
	ProtocolPopup    bool   `json:"protocol_popup"`
	GuestbookEnabled bool   `json:"guestbook_enabled"`
	Language         string `json:"language"`
}

// DefaultConfig returns the document a fresh authoring session starts from.
// It is intentionally not valid for saving: the events list is empty until
// the owner adds at least one.
func DefaultConfig() *Config {
	return &Config{
		Template: "classic",
		Settings: Settings{
			ProtocolPopup:    false,
			GuestbookEnabled: true,
			Language:         "id",
		},
	}
}
