package invitation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// FieldErrors maps dotted field paths (couple.bride.full_name, events.2.date)
// to human-readable problems, so a multi-step form can attribute every error
// to its originating input. Unlike slug validation, which fails fast on a
// single gate, document validation aggregates everything in one pass.
type FieldErrors map[string]string

// Error implements the error interface with a stable, sorted rendering.
func (fe FieldErrors) Error() string {
	paths := make([]string, 0, len(fe))
	for p := range fe {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("invalid configuration:")
	for _, p := range paths {
		b.WriteString(" ")
		b.WriteString(p)
		b.WriteString(": ")
		b.WriteString(fe[p])
		b.WriteString(";")
	}
	return strings.TrimSuffix(b.String(), ";")
}

var (
	timePattern  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Validate checks every field of cfg and returns the complete set of field
// errors, or nil when the document is valid. It never mutates cfg and never
// touches storage. Callers that want a normalized copy should use
// ValidateAndNormalize.
func Validate(cfg *Config) FieldErrors {
	fe := FieldErrors{}

	if !contains(Templates, cfg.Template) {
		fe["template"] = fmt.Sprintf("must be one of %s", strings.Join(Templates, ", "))
	}

	validatePartner(fe, "couple.bride", cfg.Couple.Bride)
	validatePartner(fe, "couple.groom", cfg.Couple.Groom)

	switch {
	case len(cfg.Events) < MinEvents:
		fe["events"] = fmt.Sprintf("at least %d event is required", MinEvents)
	case len(cfg.Events) > MaxEvents:
		fe["events"] = fmt.Sprintf("at most %d events are allowed", MaxEvents)
	}
	for i, ev := range cfg.Events {
		validateEvent(fe, fmt.Sprintf("events.%d", i), ev)
	}

	if len(cfg.Gallery.Photos) > MaxPhotos {
		fe["gallery.photos"] = fmt.Sprintf("at most %d photos are allowed", MaxPhotos)
	}
	if len(cfg.Gallery.Videos) > MaxVideos {
		fe["gallery.videos"] = fmt.Sprintf("at most %d videos are allowed", MaxVideos)
	}

	if cfg.Music != nil && strings.TrimSpace(cfg.Music.URL) == "" {
		fe["music.url"] = "required when music is set"
	}

	if cfg.Gift != nil {
		if len(cfg.Gift.Accounts) > MaxBankAccounts {
			fe["gift.accounts"] = fmt.Sprintf("at most %d bank accounts are allowed", MaxBankAccounts)
		}
		for i, acc := range cfg.Gift.Accounts {
			prefix := fmt.Sprintf("gift.accounts.%d", i)
			requireNonEmpty(fe, prefix+".bank", acc.Bank)
			requireNonEmpty(fe, prefix+".number", acc.Number)
			requireNonEmpty(fe, prefix+".holder", acc.Holder)
		}
	}

	if !contains(Languages, cfg.Settings.Language) {
		fe["settings.language"] = fmt.Sprintf("must be one of %s", strings.Join(Languages, ", "))
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

// ValidateAndNormalize validates cfg and, on success, returns a copy with
// string fields trimmed of surrounding whitespace. The input is untouched.
func ValidateAndNormalize(cfg *Config) (*Config, FieldErrors) {
	if fe := Validate(cfg); fe != nil {
		return nil, fe
	}
	out := *cfg
	out.Couple.Bride = trimPartner(cfg.Couple.Bride)
	out.Couple.Groom = trimPartner(cfg.Couple.Groom)
	out.Events = make([]Event, len(cfg.Events))
	for i, ev := range cfg.Events {
		ev.Title = strings.TrimSpace(ev.Title)
		ev.Venue = strings.TrimSpace(ev.Venue)
		ev.Address = strings.TrimSpace(ev.Address)
		out.Events[i] = ev
	}
	out.LoveStory = strings.TrimSpace(cfg.LoveStory)
	return &out, nil
}

func validatePartner(fe FieldErrors, prefix string, p Partner) {
	requireNonEmpty(fe, prefix+".full_name", p.FullName)
}

func validateEvent(fe FieldErrors, prefix string, ev Event) {
	if !contains(EventTypes, ev.Type) {
		fe[prefix+".type"] = fmt.Sprintf("must be one of %s", strings.Join(EventTypes, ", "))
	}
	requireNonEmpty(fe, prefix+".title", ev.Title)
	requireNonEmpty(fe, prefix+".venue", ev.Venue)
	requireNonEmpty(fe, prefix+".address", ev.Address)

	if strings.TrimSpace(ev.Date) == "" {
		fe[prefix+".date"] = "required"
	} else if _, err := time.Parse("2006-01-02", ev.Date); err != nil {
		fe[prefix+".date"] = "must be a date in YYYY-MM-DD form"
	}

	if strings.TrimSpace(ev.Time) == "" {
		fe[prefix+".time"] = "required"
	} else if !timePattern.MatchString(ev.Time) {
		fe[prefix+".time"] = "must be a 24-hour time in HH:MM form"
	}
}

func trimPartner(p Partner) Partner {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Nickname = strings.TrimSpace(p.Nickname)
	p.FatherName = strings.TrimSpace(p.FatherName)
	p.MotherName = strings.TrimSpace(p.MotherName)
	return p
}

func requireNonEmpty(fe FieldErrors, path, value string) {
	if strings.TrimSpace(value) == "" {
		fe[path] = "required"
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
