package voices

import (
	"sort"
	"strings"

	"dubber/internal/config"
)

// DefaultVoiceID is the fallback voice used when no (language, gender) entry
// exists. Sarah, a neutral multilingual voice.
const DefaultVoiceID = "EXAVITQu4vr4xnSDxMaL"

// Table maps language code to gender to synthesizer voice ID.
type Table map[string]map[string]string

// builtinTable covers the languages the pipeline ships voices for. Config can
// override individual entries or add languages.
var builtinTable = Table{
	"en": {"male": "onwK4e9ZLuTAKqWW03F9", "female": "EXAVITQu4vr4xnSDxMaL"},
	"hi": {"male": "XB0fDUnXU5powFXDhCwa", "female": "cgSgspJ2msm6clMCkdW9"},
	"gu": {"male": "pqHfZKP75CvOlQylNhV4", "female": "pFZP5JQG7iQjIQuC4Bku"},
	"pa": {"male": "bIHbv24MWmeRgasZH58o", "female": "XrExE9yKIg1WjnnlVkGX"},
	"bn": {"male": "cjVigY5qzO86Huf0OWal", "female": "Xb7hH8MSUJpSbSDYk0k2"},
	"ta": {"male": "nPczCjzI2devNBz1zQrb", "female": "FGY2WhTYpPnrIDTdsKH5"},
	"te": {"male": "iP95p4xoKVk53GoZ742B", "female": "SAz9YHcvj6GT2YYXdXww"},
	"ml": {"male": "TX3LPaxmHKxFdv7VOQHJ", "female": "9BWtsMINqrJLrRacOk9x"},
	"kn": {"male": "JBFqnCBsd6RMkjVDRZzb", "female": "z9fAnlkpzviPz146aGWa"},
	"mr": {"male": "IKne3meq5aSn9XLyUdCD", "female": "XB0fDUnXU5powFXDhCwa"},
	"ur": {"male": "bVMeCyTHy58xNoL34h3p", "female": "pNInz6obpgDQGcFmaJgB"},
	"es": {"male": "TxGEqnHWrfWFTfGW9XjX", "female": "z9fAnlkpzviPz146aGWa"},
	"fr": {"male": "bVMeCyTHy58xNoL34h3p", "female": "pNInz6obpgDQGcFmaJgB"},
}

// Resolver maps (language, gender) to a concrete voice ID. It never errors:
// unknown languages and genders resolve to the fallback voice so every
// transcript entry stays synthesizable.
type Resolver struct {
	table    Table
	fallback string
}

// NewResolver builds a resolver from the built-in table merged with config
// overrides.
func NewResolver(cfg *config.Config) *Resolver {
	table := make(Table, len(builtinTable))
	for lang, genders := range builtinTable {
		entry := make(map[string]string, len(genders))
		for gender, voice := range genders {
			entry[gender] = voice
		}
		table[lang] = entry
	}
	fallback := DefaultVoiceID
	if cfg != nil {
		for lang, genders := range cfg.Voices.Table {
			lang = strings.ToLower(strings.TrimSpace(lang))
			if lang == "" {
				continue
			}
			entry := table[lang]
			if entry == nil {
				entry = make(map[string]string, len(genders))
				table[lang] = entry
			}
			for gender, voice := range genders {
				gender = strings.ToLower(strings.TrimSpace(gender))
				voice = strings.TrimSpace(voice)
				if gender == "" || voice == "" {
					continue
				}
				entry[gender] = voice
			}
		}
		if fb := strings.TrimSpace(cfg.Voices.Default); fb != "" {
			fallback = fb
		}
	}
	return &Resolver{table: table, fallback: fallback}
}

// Resolve returns the voice ID for the language and gender, falling back to
// the default voice when either is unknown.
func (r *Resolver) Resolve(language, gender string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	gender = strings.ToLower(strings.TrimSpace(gender))
	if entry, ok := r.table[language]; ok {
		if voice, ok := entry[gender]; ok {
			return voice
		}
	}
	return r.fallback
}

// Fallback returns the default voice ID.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// Languages returns the sorted language codes the resolver has voices for.
func (r *Resolver) Languages() []string {
	langs := make([]string, 0, len(r.table))
	for lang := range r.table {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
