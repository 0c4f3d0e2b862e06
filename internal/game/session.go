// internal/game/session.go
package game

import (
	"sync"
	"time"

	"semantus/internal/model"

	"github.com/google/uuid"
)

// Participant はセッション参加者のインメモリ状態です
type Participant struct {
	UserID         uuid.UUID
	JoinedAt       time.Time
	BestSimilarity float64
	HasWon         bool
}

// Invitation は未応答の招待です。応答 (Accept/Decline) で消費されます
type Invitation struct {
	InviterID uuid.UUID
	InviteeID uuid.UUID
	CreatedAt time.Time
}

// Guess は確定済みの推測1件です
type Guess struct {
	UserID      uuid.UUID
	SurfaceWord string
	Lemma       string
	Similarity  float64
	Rank        *int
	Sequence    int
	SubmittedAt time.Time
	IsWin       bool
}

// Session は1ゲームの状態機械です。全フィールドは mu で保護され、
// {重複チェック → 追記 → 状態更新} は単一のクリティカルセクションで
// 行われます。レンマ化や類似度計算などの重い処理はロックの外で済ませ、
// 結果だけを Apply する設計です (Processor 参照)。
type Session struct {
	id           uuid.UUID
	mode         model.GameMode
	targetLemma  string
	creatorID    uuid.UUID
	createdAt    time.Time
	minOpponents int

	mu             sync.Mutex
	status         model.GameStatus
	participants   map[uuid.UUID]*Participant
	joinOrder      []uuid.UUID
	invitations    map[uuid.UUID]*Invitation // invitee -> invitation
	invitedTotal   int
	guesses        []*Guess
	byLemma        map[string]*Guess
	seq            int
	finishedAt     *time.Time
}

// NewSession は新しいセッションを作成し、作成者を参加者として登録します。
// Singleplayer は作成と同時に Active、それ以外は Open で始まります。
func NewSession(mode model.GameMode, creatorID uuid.UUID, targetLemma string, minOpponents int) *Session {
	now := time.Now().UTC()
	s := &Session{
		id:           uuid.New(),
		mode:         mode,
		targetLemma:  targetLemma,
		creatorID:    creatorID,
		createdAt:    now,
		minOpponents: minOpponents,
		status:       model.StatusOpen,
		participants: make(map[uuid.UUID]*Participant),
		invitations:  make(map[uuid.UUID]*Invitation),
		byLemma:      make(map[string]*Guess),
	}
	s.addParticipant(creatorID, now)
	if mode == model.ModeSingleplayer {
		s.status = model.StatusActive
	}
	return s
}

func (s *Session) ID() uuid.UUID        { return s.id }
func (s *Session) Mode() model.GameMode { return s.mode }
func (s *Session) CreatorID() uuid.UUID { return s.creatorID }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) TargetLemma() string  { return s.targetLemma }

func (s *Session) Status() model.GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// FinishedAt は終端状態に入った時刻を返します (未終了なら nil)
func (s *Session) FinishedAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedAt == nil {
		return nil
	}
	t := *s.finishedAt
	return &t
}

// 呼び出し側が mu を保持していること
func (s *Session) addParticipant(userID uuid.UUID, now time.Time) *Participant {
	p := &Participant{UserID: userID, JoinedAt: now}
	s.participants[userID] = p
	s.joinOrder = append(s.joinOrder, userID)
	return p
}

// 呼び出し側が mu を保持していること。Open -> Active の遷移条件:
// 作成者以外に minOpponents 人が参加したか、発行済みの招待がすべて
// 応答済みになったかのいずれか早い方。
func (s *Session) maybeActivate() {
	if s.status != model.StatusOpen {
		return
	}
	if len(s.participants) >= 1+s.minOpponents {
		s.status = model.StatusActive
		return
	}
	if s.invitedTotal > 0 && len(s.invitations) == 0 {
		s.status = model.StatusActive
	}
}

// Invite は招待を発行します。Singleplayer では model.ErrInvalidMode、
// 終端状態では model.ErrSessionClosed です。
func (s *Session) Invite(inviterID, inviteeID uuid.UUID) (*Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == model.ModeSingleplayer {
		return nil, model.ErrInvalidMode
	}
	if s.status.Terminal() {
		return nil, model.ErrSessionClosed
	}
	if _, ok := s.participants[inviterID]; !ok {
		return nil, model.ErrForbidden
	}
	if _, ok := s.participants[inviteeID]; ok {
		return nil, model.ErrConflict
	}
	if _, ok := s.invitations[inviteeID]; ok {
		return nil, model.ErrConflict
	}

	inv := &Invitation{InviterID: inviterID, InviteeID: inviteeID, CreatedAt: time.Now().UTC()}
	s.invitations[inviteeID] = inv
	s.invitedTotal++
	return inv, nil
}

// Respond は招待への応答を処理します。承諾なら参加者を作成し、
// どちらの場合も招待は削除されます。
func (s *Session) Respond(inviteeID uuid.UUID, accept bool) (*Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return nil, model.ErrSessionClosed
	}
	if _, ok := s.invitations[inviteeID]; !ok {
		return nil, model.ErrInvitationNotFound
	}
	delete(s.invitations, inviteeID)

	var p *Participant
	if accept {
		p = s.addParticipant(inviteeID, time.Now().UTC())
	}
	s.maybeActivate()
	return p, nil
}

// Abandon はセッションを放棄します。作成者のみが実行でき、
// Completed からの遷移はできません。
func (s *Session) Abandon(by uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if by != s.creatorID {
		return model.ErrForbidden
	}
	if s.status == model.StatusCompleted || s.status == model.StatusAbandoned {
		return model.ErrSessionClosed
	}
	now := time.Now().UTC()
	s.status = model.StatusAbandoned
	s.finishedAt = &now
	return nil
}

// ApplyGuess は採点済みの推測をセッションに反映します。重複チェックと
// 追記と勝利判定を1つのクリティカルセクションで行うため、同じレンマに
// 解決される並行した2つの推測は必ず片方だけが受理され、もう片方は
// 既存レコードと共に model.ErrDuplicateGuess を受け取ります。
func (s *Session) ApplyGuess(userID uuid.UUID, surface, base string, similarity float64, rank int, isWin bool) (*Guess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return nil, model.ErrSessionClosed
	}
	if s.status != model.StatusActive {
		return nil, model.NewAppError("SESSION_NOT_STARTED", "セッションはまだ開始されていません。", "", model.ErrForbidden)
	}
	p, ok := s.participants[userID]
	if !ok {
		return nil, model.ErrForbidden
	}

	if existing, ok := s.byLemma[base]; ok {
		g := *existing
		return &g, model.ErrDuplicateGuess
	}

	s.seq++
	r := rank
	g := &Guess{
		UserID:      userID,
		SurfaceWord: surface,
		Lemma:       base,
		Similarity:  similarity,
		Rank:        &r,
		Sequence:    s.seq,
		SubmittedAt: time.Now().UTC(),
		IsWin:       isWin,
	}
	s.guesses = append(s.guesses, g)
	s.byLemma[base] = g

	if similarity > p.BestSimilarity {
		p.BestSimilarity = similarity
	}

	if isWin {
		now := time.Now().UTC()
		s.status = model.StatusCompleted
		s.finishedAt = &now
		switch s.mode {
		case model.ModeCooperative:
			// 協力モードでは勝利は全員で共有する
			for _, part := range s.participants {
				part.HasWon = true
			}
		default:
			// Versus / Singleplayer では最初の的中者だけが勝者
			p.HasWon = true
		}
	}

	out := *g
	return &out, nil
}

// Participants は参加順の参加者スナップショットを返します
func (s *Session) Participants() []Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Participant, 0, len(s.joinOrder))
	for _, id := range s.joinOrder {
		out = append(out, *s.participants[id])
	}
	return out
}

// Participant は指定ユーザーの参加者スナップショットを返します
func (s *Session) Participant(userID uuid.UUID) (Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[userID]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// Guesses は推測ログのスナップショットを投稿順で返します
func (s *Session) Guesses() []Guess {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Guess, 0, len(s.guesses))
	for _, g := range s.guesses {
		out = append(out, *g)
	}
	return out
}

// PendingInvitation は指定ユーザー宛の未応答招待を返します
func (s *Session) PendingInvitation(inviteeID uuid.UUID) (Invitation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[inviteeID]
	if !ok {
		return Invitation{}, false
	}
	return *inv, true
}
