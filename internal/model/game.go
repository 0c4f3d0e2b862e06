// internal/model/game.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// GameMode はゲームの種別です
type GameMode string

const (
	ModeSingleplayer GameMode = "singleplayer"
	ModeCooperative  GameMode = "coop"
	ModeVersus       GameMode = "versus"
)

func (m GameMode) Valid() bool {
	switch m {
	case ModeSingleplayer, ModeCooperative, ModeVersus:
		return true
	}
	return false
}

// GameStatus はセッションの状態です。Completed / Abandoned は終端状態で、
// 以後の推測・招待・参加はすべて拒否されます。
type GameStatus string

const (
	StatusOpen      GameStatus = "open"
	StatusActive    GameStatus = "active"
	StatusCompleted GameStatus = "completed"
	StatusAbandoned GameStatus = "abandoned"
)

func (s GameStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// GameSession は1ゲームの永続化レコードです。進行中の状態遷移は
// internal/game が所有し、ここはその書き込み先に過ぎません。
type GameSession struct {
	SessionID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"session_id"`
	Mode        GameMode   `gorm:"type:varchar(20);not null" json:"mode"`
	TargetLemma string     `gorm:"not null" json:"-"` // プレイヤーには公開しない
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	Status      GameStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// 関連 (Preload用)
	Participants []Participant `gorm:"foreignKey:SessionID;references:SessionID" json:"-"`
	Guesses      []GuessRecord `gorm:"foreignKey:SessionID;references:SessionID" json:"-"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}

// Participant はセッション参加者の状態です
type Participant struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	SessionID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_participant" json:"-"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_participant;index" json:"user_id"`
	JoinedAt       time.Time `gorm:"not null" json:"joined_at"`
	BestSimilarity float64   `json:"best_similarity"`
	HasWon         bool      `json:"has_won"`
}

func (Participant) TableName() string {
	return "game_participants"
}

// InvitationStatus は招待の状態です。Accept / Decline で招待レコードは消費
// (削除) されるため、永続化されるのは pending のみです。
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation はオープンでないセッションへの招待です
type Invitation struct {
	ID        uint             `gorm:"primaryKey" json:"-"`
	SessionID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_invitation" json:"session_id"`
	InviterID uuid.UUID        `gorm:"type:uuid;not null" json:"inviter_id"`
	InviteeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_invitation;index" json:"invitee_id"`
	Status    InvitationStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Invitation) TableName() string {
	return "game_invitations"
}

// GuessRecord は1回の推測の結果です。追記専用で、セッション内では
// レンマが一意になります (同じレンマに解決される2つ目の推測は拒否)。
type GuessRecord struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_guess_lemma" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SurfaceWord string    `gorm:"not null" json:"surface_word"`
	Lemma       string    `gorm:"not null;uniqueIndex:uq_guess_lemma" json:"lemma"`
	Similarity  float64   `json:"similarity"`
	Rank        *int      `json:"rank"` // 的中時は 0、非的中時は 1 始まりの順位
	Sequence    int       `gorm:"not null" json:"sequence"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
}

func (GuessRecord) TableName() string {
	return "game_guesses"
}

// --- DTO ---

// CreateGameRequest はゲーム作成リクエスト。TargetLemma はデイリー問題など
// 出題語を呼び出し側が決める場合にのみ指定します。
type CreateGameRequest struct {
	Mode        string  `json:"mode" validate:"required,oneof=singleplayer coop versus"`
	TargetLemma *string `json:"target_lemma,omitempty" validate:"omitempty,min=1"`
}

// GuessRequest は推測の投稿リクエスト
type GuessRequest struct {
	Word string `json:"word" validate:"required"`
}

// InviteRequest は招待リクエスト
type InviteRequest struct {
	InviteeID uuid.UUID `json:"invitee_id" validate:"required"`
}

// InvitationResponseRequest は招待への応答リクエスト
type InvitationResponseRequest struct {
	Accept bool `json:"accept"`
}

// GuessResponse は1回の推測結果のレスポンス
type GuessResponse struct {
	SessionID   uuid.UUID  `json:"session_id"`
	UserID      uuid.UUID  `json:"user_id"`
	SurfaceWord string     `json:"surface_word"`
	Lemma       string     `json:"lemma"`
	Similarity  float64    `json:"similarity"`
	Rank        *int       `json:"rank"`
	Sequence    int        `json:"sequence"`
	IsWin       bool       `json:"is_win"`
	Duplicate   bool       `json:"duplicate,omitempty"`
	Status      GameStatus `json:"session_status"`
}

// ParticipantView は参加者状態のレスポンス表現
type ParticipantView struct {
	UserID         uuid.UUID `json:"user_id"`
	JoinedAt       time.Time `json:"joined_at"`
	BestSimilarity float64   `json:"best_similarity"`
	HasWon         bool      `json:"has_won"`
}

// GameSessionResponse はセッションの外部向けビュー (出題語は含めない)
type GameSessionResponse struct {
	SessionID    uuid.UUID         `json:"session_id"`
	Mode         GameMode          `json:"mode"`
	Status       GameStatus        `json:"status"`
	CreatorID    uuid.UUID         `json:"creator_id"`
	CreatedAt    time.Time         `json:"created_at"`
	Participants []ParticipantView `json:"participants"`
	Guesses      []GuessResponse   `json:"guesses"`
}
