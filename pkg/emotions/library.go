package emotions

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Library indexes a collection of emotions by name.
// It is constructed explicitly and passed to whoever needs clip lookup;
// there is no package-level instance.
type Library struct {
	mu       sync.RWMutex
	emotions map[string]*Emotion
}

// NewLibrary creates an empty emotion library.
func NewLibrary() *Library {
	return &Library{
		emotions: make(map[string]*Emotion),
	}
}

// LoadBuiltIn loads all embedded emotions into the library.
func (l *Library) LoadBuiltIn() error {
	names, err := ListEmbedded()
	if err != nil {
		return fmt.Errorf("failed to list embedded emotions: %w", err)
	}

	for _, name := range names {
		emotion, err := LoadEmbedded(name)
		if err != nil {
			return fmt.Errorf("failed to load emotion %q: %w", name, err)
		}
		l.Register(emotion)
	}

	return nil
}

// LoadCustomDir loads emotions from a custom directory.
// Custom emotions shadow built-ins with the same name.
func (l *Library) LoadCustomDir(dir string) error {
	loaded, err := LoadFromDirectory(dir)
	if err != nil {
		return err
	}

	for _, emotion := range loaded {
		l.Register(emotion)
	}

	return nil
}

// Register adds an emotion to the library.
func (l *Library) Register(emotion *Emotion) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emotions[emotion.Name] = emotion
}

// Get retrieves an emotion by name.
func (l *Library) Get(name string) (*Emotion, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	emotion, ok := l.emotions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return emotion, nil
}

// List returns all registered emotion names, sorted alphabetically.
func (l *Library) List() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.emotions))
	for name := range l.emotions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all emotions with their descriptions.
func (l *Library) ListWithDescriptions() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]string, len(l.emotions))
	for name, emotion := range l.emotions {
		result[name] = emotion.Description
	}
	return result
}

// Count returns the number of registered emotions.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.emotions)
}

// Categories groups emotions by common prefixes for easier browsing.
func (l *Library) Categories() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	categories := make(map[string][]string)

	for name := range l.emotions {
		// Extract category from name (e.g., "happy1" -> "happy")
		category := extractCategory(name)
		categories[category] = append(categories[category], name)
	}

	for cat := range categories {
		sort.Strings(categories[cat])
	}

	return categories
}

// extractCategory gets the base name without trailing numbers.
func extractCategory(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == 0 {
		return name
	}
	return name[:i]
}

// Search finds emotions matching a query (case-insensitive substring match).
func (l *Library) Search(query string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	q := strings.ToLower(query)

	var matches []string
	for name, emotion := range l.emotions {
		if strings.Contains(strings.ToLower(name), q) ||
			strings.Contains(strings.ToLower(emotion.Description), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}
