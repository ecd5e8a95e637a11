package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
)

// sessionDocument 会话文件格式
type sessionDocument struct {
	Sessions map[string]*model.ChatSession `json:"sessions"`
}

// SessionStore 基于 JSON 文件的会话存储
// 以 (userId, sessionId) 为键，同名 sessionId 在不同用户间互不可见
type SessionStore struct {
	mu   sync.Mutex
	file jsonFile[sessionDocument]
	doc  sessionDocument
}

// NewSessionStore 创建会话存储，文件损坏时从空存储开始
func NewSessionStore(path string, log *logger.Logger) *SessionStore {
	s := &SessionStore{file: jsonFile[sessionDocument]{path: path}}
	doc, err := s.file.load()
	if err != nil {
		log.Error("failed to load chat session store, starting empty", "path", path, "error", err)
	}
	if doc.Sessions == nil {
		doc.Sessions = make(map[string]*model.ChatSession)
	}
	s.doc = doc
	return s
}

func sessionKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

// Get 获取会话
func (s *SessionStore) Get(_ context.Context, userID, sessionID string) (*model.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.doc.Sessions[sessionKey(userID, sessionID)]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

// Save 保存会话并整文件重写
func (s *SessionStore) Save(_ context.Context, session *model.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(session.UserID, session.SessionID)
	prev, existed := s.doc.Sessions[key]
	s.doc.Sessions[key] = session.Clone()

	if err := s.file.save(s.doc); err != nil {
		if existed {
			s.doc.Sessions[key] = prev
		} else {
			delete(s.doc.Sessions, key)
		}
		return err
	}
	return nil
}

// ListByUser 列出用户会话，按更新时间倒序
func (s *SessionStore) ListByUser(_ context.Context, userID string) ([]*model.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]*model.ChatSession, 0)
	for _, sess := range s.doc.Sessions {
		if sess.UserID == userID {
			sessions = append(sessions, sess.Clone())
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}
