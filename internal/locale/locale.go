package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-contacts/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    config.TKeyMonday,
	time.Tuesday:   config.TKeyTuesday,
	time.Wednesday: config.TKeyWednesday,
	time.Thursday:  config.TKeyThursday,
	time.Friday:    config.TKeyFriday,
	time.Saturday:  config.TKeySaturday,
	time.Sunday:    config.TKeySunday,
}

// Translator resolves message keys for one language.
type Translator struct {
	Languages []string
	localizer *i18n.Localizer
}

// New loads the embedded locales and selects lang, falling back to English.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{}
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return t
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.Languages = append(t.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.localizer = i18n.NewLocalizer(bundle, lang, config.DefaultLanguage)
	return t
}

// Msg translates key, filling placeholders from data. The key itself is
// returned when no translation exists.
func (t *Translator) Msg(key string, data map[string]any) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Weekday returns the localized name of wd. It plugs into engine.Digest.WeekdayName.
func (t *Translator) Weekday(wd time.Weekday) string {
	msg := t.Msg(weekdayKeys[wd], nil)
	if msg == weekdayKeys[wd] {
		return wd.String()
	}
	return msg
}
