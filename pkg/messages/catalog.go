// Package messages provides the in-memory message catalogue used to localize
// validator error strings. It implements validation.Translator; callers with
// an existing i18n stack can plug their own implementation instead.
package messages

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DefaultLocale is consulted when a key is missing for the requested locale.
const DefaultLocale = "en"

// ErrMissingTranslation is returned when neither the requested locale nor
// the default locale carries the key.
var ErrMissingTranslation = errors.New("messages: missing translation")

// Catalog stores locale -> key -> fmt.Sprintf template.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewCatalog builds an empty catalogue.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]map[string]string)}
}

// Add registers one message template. Empty locales fall back to the default
// locale bucket.
func (c *Catalog) Add(locale, key, template string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	locale = normalizeLocale(locale)

	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.entries[locale]
	if !ok {
		bucket = make(map[string]string)
		c.entries[locale] = bucket
	}
	bucket[key] = template
}

// AddAll registers a batch of templates for one locale.
func (c *Catalog) AddAll(locale string, templates map[string]string) {
	for key, template := range templates {
		c.Add(locale, key, template)
	}
}

// Translate implements validation.Translator. Lookup order: the requested
// locale, its language prefix (en-US -> en), then the default locale.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("messages: empty key")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range lookupOrder(locale) {
		if bucket, ok := c.entries[candidate]; ok {
			if template, ok := bucket[key]; ok {
				if len(args) == 0 {
					return template, nil
				}
				return fmt.Sprintf(template, args...), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s (locale %q)", ErrMissingTranslation, key, locale)
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	return locale
}

func lookupOrder(locale string) []string {
	locale = normalizeLocale(locale)
	order := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		order = append(order, locale[:idx])
	}
	if locale != DefaultLocale {
		order = append(order, DefaultLocale)
	}
	return order
}
