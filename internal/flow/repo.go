package flow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Repository persists the session and the stage marker between runs, the
// way the browser app keeps them in local storage. Load returns a nil
// session and StageSelection when nothing is stored yet.
type Repository interface {
	Load() (*Session, Stage, error)
	Save(sess *Session, stage Stage) error
	Clear() error
}

// MemoryRepository is the in-memory Repository used by tests.
type MemoryRepository struct {
	mu    sync.Mutex
	sess  *Session
	stage Stage
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{stage: StageSelection}
}

func (m *MemoryRepository) Load() (*Session, Stage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, StageSelection, nil
	}
	cp := *m.sess
	if m.sess.MatchData != nil {
		md := *m.sess.MatchData
		cp.MatchData = &md
	}
	return &cp, m.stage, nil
}

func (m *MemoryRepository) Save(sess *Session, stage Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = sess
	m.stage = stage
	return nil
}

func (m *MemoryRepository) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	m.stage = StageSelection
	return nil
}

type fileState struct {
	Session *Session `json:"session,omitempty"`
	Stage   Stage    `json:"stage"`
}

// FileRepository stores the session state as a JSON file, for the terminal
// client.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (f *FileRepository) Load() (*Session, Stage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, StageSelection, nil
	}
	if err != nil {
		return nil, StageSelection, err
	}
	var st fileState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, StageSelection, err
	}
	if st.Stage == "" {
		st.Stage = StageSelection
	}
	return st.Session, st.Stage, nil
}

func (f *FileRepository) Save(sess *Session, stage Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(fileState{Session: sess, Stage: stage}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, append(b, '\n'), 0o600)
}

func (f *FileRepository) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
