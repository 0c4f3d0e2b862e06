// internal/game/directory.go
package game

import (
	"sync"
	"time"

	"semantus/internal/model"

	"github.com/google/uuid"
)

// Directory はプロセス内で進行中のセッションのレジストリです。
// セッションIDごとに生きたセッションオブジェクトは常に1つで、
// 生成・検索・破棄はすべてここを経由します。セッション自体の変更は
// 各セッションのロックが守るため、ここのロックはマップ操作だけを
// 覆います。
type Directory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	byUser   map[uuid.UUID]map[uuid.UUID]struct{} // userID -> session IDs
}

func NewDirectory() *Directory {
	return &Directory{
		sessions: make(map[uuid.UUID]*Session),
		byUser:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// Create はセッションを生成して登録します
func (d *Directory) Create(mode model.GameMode, creatorID uuid.UUID, targetLemma string, minOpponents int) *Session {
	s := NewSession(mode, creatorID, targetLemma, minOpponents)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[s.ID()] = s
	d.indexUser(creatorID, s.ID())
	return s
}

// Get はセッションを検索します。未登録なら model.ErrNotFound です
func (d *Directory) Get(id uuid.UUID) (*Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return s, nil
}

// Remove はセッションを明示的に破棄します (保持期間経過後など)
func (d *Directory) Remove(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[id]
	if !ok {
		return
	}
	delete(d.sessions, id)
	for _, p := range s.Participants() {
		if set, ok := d.byUser[p.UserID]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(d.byUser, p.UserID)
			}
		}
	}
}

// IndexUser はユーザーとセッションの対応を読み取り用の索引に追加します。
// 参加者が増えた (招待承諾など) ときにサービス層から呼ばれます。
func (d *Directory) IndexUser(userID, sessionID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[sessionID]; !ok {
		return
	}
	d.indexUser(userID, sessionID)
}

// 呼び出し側が mu を保持していること
func (d *Directory) indexUser(userID, sessionID uuid.UUID) {
	set, ok := d.byUser[userID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		d.byUser[userID] = set
	}
	set[sessionID] = struct{}{}
}

// ForUser はユーザーが参加しているセッションの一覧を返します
func (d *Directory) ForUser(userID uuid.UUID) []*Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Session
	for id := range d.byUser[userID] {
		if s, ok := d.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Len は登録されているセッション数を返します
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// Sweep は保持期間を過ぎた終端状態のセッションを破棄し、
// 破棄したセッションを返します。呼び出し側は返り値を使って
// セッションに紐づく外部リソース (順位表キャッシュ等) を解放します。
func (d *Directory) Sweep(retention time.Duration) []*Session {
	cutoff := time.Now().UTC().Add(-retention)

	d.mu.RLock()
	var expired []*Session
	for _, s := range d.sessions {
		if at := s.FinishedAt(); at != nil && at.Before(cutoff) {
			expired = append(expired, s)
		}
	}
	d.mu.RUnlock()

	for _, s := range expired {
		d.Remove(s.ID())
	}
	return expired
}
