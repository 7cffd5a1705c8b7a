package server

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/taskmaster/kanban/internal/domain/entities"
)

var (
	errEmailTaken   = errors.New("email already registered")
	errUnknownUser  = errors.New("user not found")
	errUnknownBoard = errors.New("board not found")
)

type storedUser struct {
	entities.User
	PasswordHash []byte
}

// Store is the sandbox's in-memory data set. IDs are assigned sequentially per
// resource starting at 1. Deleting a board or column cascades to what it holds.
type Store struct {
	mu sync.RWMutex

	users   map[int64]*storedUser
	boards  map[int64]entities.Board
	columns map[int64]entities.Column
	tasks   map[int64]entities.Task

	nextUser, nextBoard, nextColumn, nextTask int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:   make(map[int64]*storedUser),
		boards:  make(map[int64]entities.Board),
		columns: make(map[int64]entities.Column),
		tasks:   make(map[int64]entities.Task),
	}
}

func (s *Store) CreateUser(email string, name *string, hash []byte) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == key {
			return entities.User{}, errEmailTaken
		}
	}

	s.nextUser++
	u := &storedUser{
		User:         entities.User{ID: s.nextUser, Email: email, Name: name},
		PasswordHash: hash,
	}
	s.users[u.ID] = u
	return u.User, nil
}

func (s *Store) UserByEmail(email string) (*storedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := strings.ToLower(email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == key {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errUnknownUser
}

func (s *Store) ListBoards(ownerID int64) []entities.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Board, 0, len(s.boards))
	for _, b := range s.boards {
		if ownerID != 0 && b.OwnerID != ownerID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Board(id int64) (entities.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[id]
	return b, ok
}

func (s *Store) CreateBoard(b entities.Board) entities.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBoard++
	b.ID = s.nextBoard
	s.boards[b.ID] = b
	return b
}

func (s *Store) UpdateBoard(id int64, apply func(*entities.Board)) (entities.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[id]
	if !ok {
		return entities.Board{}, false
	}
	apply(&b)
	s.boards[id] = b
	return b, true
}

func (s *Store) DeleteBoard(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[id]; !ok {
		return false
	}
	delete(s.boards, id)
	for cid, c := range s.columns {
		if c.BoardID == id {
			delete(s.columns, cid)
		}
	}
	for tid, t := range s.tasks {
		if t.BoardID == id {
			delete(s.tasks, tid)
		}
	}
	return true
}

func (s *Store) ListColumns(boardID int64) []entities.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Column, 0, len(s.columns))
	for _, c := range s.columns {
		if boardID != 0 && c.BoardID != boardID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Column(id int64) (entities.Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.columns[id]
	return c, ok
}

func (s *Store) CreateColumn(c entities.Column) (entities.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[c.BoardID]; !ok {
		return entities.Column{}, errUnknownBoard
	}
	s.nextColumn++
	c.ID = s.nextColumn
	s.columns[c.ID] = c
	return c, nil
}

func (s *Store) UpdateColumn(id int64, apply func(*entities.Column)) (entities.Column, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.columns[id]
	if !ok {
		return entities.Column{}, false
	}
	apply(&c)
	s.columns[id] = c
	return c, true
}

func (s *Store) DeleteColumn(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.columns[id]; !ok {
		return false
	}
	delete(s.columns, id)
	for tid, t := range s.tasks {
		if t.ColumnID == id {
			delete(s.tasks, tid)
		}
	}
	return true
}

func (s *Store) ListTasks(boardID, columnID int64) []entities.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if boardID != 0 && t.BoardID != boardID {
			continue
		}
		if columnID != 0 && t.ColumnID != columnID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Task(id int64) (entities.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// CreateTask stores a task. The column must exist and the task's board is
// taken from it. Tasks at or below the new position move down by one.
func (s *Store) CreateTask(t entities.Task) (entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.columns[t.ColumnID]
	if !ok {
		return entities.Task{}, entities.ErrColumnNotFound
	}
	t.BoardID = col.BoardID

	// make room so the new task sorts at its requested position
	for tid, other := range s.tasks {
		if other.ColumnID == t.ColumnID && other.Position >= t.Position {
			other.Position++
			s.tasks[tid] = other
		}
	}

	s.nextTask++
	t.ID = s.nextTask
	s.tasks[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTask(id int64, apply func(*entities.Task) error) (entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return entities.Task{}, entities.ErrTaskNotFound
	}
	if err := apply(&t); err != nil {
		return entities.Task{}, err
	}
	if col, ok := s.columns[t.ColumnID]; !ok || col.BoardID != t.BoardID {
		return entities.Task{}, entities.ErrColumnNotFound
	}
	s.tasks[id] = t
	return t, nil
}

func (s *Store) DeleteTask(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}
