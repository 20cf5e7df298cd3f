// Package i18n holds the operator-facing strings and locale-aware date formatting.
package i18n

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

// Message keys
const (
	MsgTitle         = "title"
	MsgHook          = "hook"
	MsgNextRun       = "next_run"
	MsgRecurrence    = "recurrence"
	MsgAction        = "action"
	MsgOneTime       = "one_time"
	MsgStop          = "stop"
	MsgStart         = "start"
	MsgNoTasks       = "no_tasks"
	MsgThen          = "then"
	MsgRequestFailed = "request_failed"
)

var messages = map[string]map[string]string{
	"en": {
		MsgTitle:         "Cron Commander",
		MsgHook:          "Hook",
		MsgNextRun:       "Next Run",
		MsgRecurrence:    "Recurrence",
		MsgAction:        "Action",
		MsgOneTime:       "One-time",
		MsgStop:          "Stop",
		MsgStart:         "Start",
		MsgNoTasks:       "No scheduled tasks found.",
		MsgThen:          "then",
		MsgRequestFailed: "Request failed",
	},
	"fr": {
		MsgTitle:         "Cron Commander",
		MsgHook:          "Hook",
		MsgNextRun:       "Prochaine exécution",
		MsgRecurrence:    "Récurrence",
		MsgAction:        "Action",
		MsgOneTime:       "Ponctuel",
		MsgStop:          "Arrêter",
		MsgStart:         "Démarrer",
		MsgNoTasks:       "Aucune tâche planifiée trouvée.",
		MsgThen:          "puis",
		MsgRequestFailed: "Échec de la requête",
	},
	"de": {
		MsgTitle:         "Cron Commander",
		MsgHook:          "Hook",
		MsgNextRun:       "Nächste Ausführung",
		MsgRecurrence:    "Wiederholung",
		MsgAction:        "Aktion",
		MsgOneTime:       "Einmalig",
		MsgStop:          "Stoppen",
		MsgStart:         "Starten",
		MsgNoTasks:       "Keine geplanten Aufgaben gefunden.",
		MsgThen:          "dann",
		MsgRequestFailed: "Anfrage fehlgeschlagen",
	},
}

// Catalog picks a translator for a request and formats times for it
type Catalog struct {
	uni           *ut.UniversalTranslator
	defaultLocale string
}

// NewCatalog builds the catalog; defaultLocale must be one of the bundled locales
func NewCatalog(defaultLocale string) (*Catalog, error) {
	english := en.New()
	uni := ut.New(english, english, fr.New(), de.New())

	for locale, entries := range messages {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return nil, fmt.Errorf("locale %s not registered", locale)
		}
		for key, text := range entries {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("failed to add %s/%s: %w", locale, key, err)
			}
		}
	}

	if defaultLocale == "" {
		defaultLocale = "en"
	}
	if _, found := uni.GetTranslator(defaultLocale); !found {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
	}

	return &Catalog{uni: uni, defaultLocale: defaultLocale}, nil
}

// Translator returns the first bundled translator matching preferences, else the default
func (c *Catalog) Translator(preferences ...string) ut.Translator {
	candidates := make([]string, 0, len(preferences)*2+1)
	for _, pref := range preferences {
		tag := strings.ToLower(strings.TrimSpace(pref))
		if tag == "" {
			continue
		}
		tag = strings.ReplaceAll(tag, "-", "_")
		candidates = append(candidates, tag)
		if base, _, found := strings.Cut(tag, "_"); found {
			candidates = append(candidates, base)
		}
	}
	candidates = append(candidates, c.defaultLocale)

	trans, _ := c.uni.FindTranslator(candidates...)
	return trans
}

// T translates key, falling back to the key itself
func T(trans ut.Translator, key string) string {
	text, err := trans.T(key)
	if err != nil {
		return key
	}
	return text
}

// FormatDateTime renders t as the locale's medium date plus short time
func FormatDateTime(trans ut.Translator, t time.Time) string {
	return trans.FmtDateMedium(t) + " " + trans.FmtTimeShort(t)
}

// ParseAcceptLanguage returns the language tags of an Accept-Language header,
// highest q first. Malformed headers yield no preferences.
func ParseAcceptLanguage(header string) []string {
	if header == "" {
		return nil
	}
	parsed, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	tags := make([]string, 0, len(parsed))
	for _, tag := range parsed {
		if tag == wildcard {
			continue
		}
		tags = append(tags, tag.String())
	}
	return tags
}

// "*" parses to the multiple-languages tag
var wildcard = language.Make("mul")
