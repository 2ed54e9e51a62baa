package clipboard

import "sync"

// Memory is an in-process clipboard: the last copied text wins. Used by the
// simulation client and tests; real clients bring their own implementation
// of askai.Clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Copy(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
