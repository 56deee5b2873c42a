package adapters

import (
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	f "github.com/soffa-projects/folio-web/core"
	folio "github.com/soffa-projects/folio-web/i18n"
	"github.com/soffa-projects/folio-web/log"
	"golang.org/x/text/language"
)

// localizerImpl renders messages with go-i18n templates ({{.Count}}). The
// bundle is rebuilt whenever a new translation set is published.
type localizerImpl struct {
	defaultLanguage language.Tag
	mu              sync.Mutex
	set             *folio.Set
	bundle          *i18n.Bundle
}

func NewLocalizer(defaultLanguage string) f.Localizer {
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		log.Warn("invalid default language %q, using en", defaultLanguage)
		tag = language.English
	}
	return &localizerImpl{defaultLanguage: tag}
}

func (l *localizerImpl) Localize(set *folio.Set, lang string, key string, data map[string]any) string {
	value, ok := set.Lookup(lang, folio.ParsePath(key))
	if !ok {
		return key
	}
	if len(data) == 0 || !strings.Contains(value, "{{") {
		return value
	}
	// messages only carry the "other" form, so no PluralCount here
	cfg := &i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	}
	out, err := i18n.NewLocalizer(l.bundleFor(set), folio.NormalizeLanguage(lang)).Localize(cfg)
	if err != nil {
		log.Debug("unable to render %s/%s: %v", lang, key, err)
		return value
	}
	return out
}

func (l *localizerImpl) bundleFor(set *folio.Set) *i18n.Bundle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.set == set && l.bundle != nil {
		return l.bundle
	}
	bundle := i18n.NewBundle(l.defaultLanguage)
	for _, lang := range set.Languages() {
		tag, err := language.Parse(lang)
		if err != nil {
			log.Warn("skipping translations of unknown language %q", lang)
			continue
		}
		messages := []*i18n.Message{}
		for id, other := range set.Flatten(lang) {
			messages = append(messages, &i18n.Message{ID: id, Other: other})
		}
		if err := bundle.AddMessages(tag, messages...); err != nil {
			log.Warn("unable to register %s translations: %v", lang, err)
		}
	}
	l.set = set
	l.bundle = bundle
	return bundle
}
