// internal/service/game_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"semantus/internal/config"
	"semantus/internal/embedding"
	"semantus/internal/game"
	"semantus/internal/middleware"
	"semantus/internal/model"
	"semantus/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameService はゲームのライフサイクル全体を取りまとめます。
// 進行中の状態はインメモリの game.Directory / game.Session が正で、
// DBには履歴 (セッション・参加者・招待・推測ログ) を書き込みます。
// 永続化の失敗でゲーム進行を止めないよう、書き込みエラーはログに残して
// 処理を続行します (作成時を除く)。
type GameService interface {
	CreateGame(ctx context.Context, creatorID uuid.UUID, req *model.CreateGameRequest) (*model.GameSessionResponse, error)
	GetGame(ctx context.Context, sessionID, userID uuid.UUID) (*model.GameSessionResponse, error)
	SubmitGuess(ctx context.Context, sessionID, userID uuid.UUID, req *model.GuessRequest) (*model.GuessResponse, error)
	Invite(ctx context.Context, sessionID, inviterID uuid.UUID, req *model.InviteRequest) error
	RespondInvitation(ctx context.Context, sessionID, inviteeID uuid.UUID, req *model.InvitationResponseRequest) (*model.GameSessionResponse, error)
	AbandonGame(ctx context.Context, sessionID, userID uuid.UUID) error
	SweepExpired(ctx context.Context) int
}

type gameService struct {
	db        *gorm.DB
	gameRepo  repository.GameRepository
	userRepo  repository.UserRepository
	directory *game.Directory
	processor *game.Processor
	engine    *embedding.SimilarityEngine
	idx       *embedding.Index
	mailer    Mailer
	cfg       *config.Config
}

func NewGameService(
	db *gorm.DB,
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	directory *game.Directory,
	processor *game.Processor,
	engine *embedding.SimilarityEngine,
	idx *embedding.Index,
	mailer Mailer,
	cfg *config.Config,
) GameService {
	return &gameService{
		db:        db,
		gameRepo:  gameRepo,
		userRepo:  userRepo,
		directory: directory,
		processor: processor,
		engine:    engine,
		idx:       idx,
		mailer:    mailer,
		cfg:       cfg,
	}
}

// CreateGame は新しいセッションを作成します。出題語は指定があればそれを
// (語彙に含まれる場合のみ)、なければ語彙からランダムに選びます。
func (s *gameService) CreateGame(ctx context.Context, creatorID uuid.UUID, req *model.CreateGameRequest) (*model.GameSessionResponse, error) {
	logger := middleware.GetLogger(ctx)

	mode := model.GameMode(req.Mode)
	if !mode.Valid() {
		return nil, model.ErrInvalidMode
	}

	var target string
	if req.TargetLemma != nil {
		if !s.idx.Contains(*req.TargetLemma) {
			return nil, model.ErrUnknownWord
		}
		target = *req.TargetLemma
	} else {
		target = s.idx.RandomLemma()
	}

	sess := s.directory.Create(mode, creatorID, target, s.cfg.Game.MinOpponents)
	// セッションの寿命に合わせて出題語の順位表キャッシュを参照カウントする
	s.engine.Acquire(target)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &model.GameSession{
			SessionID:   sess.ID(),
			Mode:        mode,
			TargetLemma: target,
			CreatorID:   creatorID,
			Status:      sess.Status(),
			CreatedAt:   sess.CreatedAt(),
		}
		if err := s.gameRepo.CreateSession(ctx, tx, record); err != nil {
			return err
		}
		return s.gameRepo.CreateParticipant(ctx, tx, &model.Participant{
			SessionID: sess.ID(),
			UserID:    creatorID,
			JoinedAt:  sess.CreatedAt(),
		})
	})
	if err != nil {
		// 永続化できなかったセッションは登録解除する
		s.directory.Remove(sess.ID())
		s.engine.Release(target)
		logger.Error("Failed to persist new game session", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Game created",
		"session_id", sess.ID().String(),
		"mode", string(mode),
		"status", string(sess.Status()),
	)
	return s.toSessionResponse(sess), nil
}

// GetGame はセッションの外部向けビューを返します。進行中はインメモリから、
// 掃除済みの過去のセッションはDBから復元します。参加者のみ閲覧できます。
func (s *gameService) GetGame(ctx context.Context, sessionID, userID uuid.UUID) (*model.GameSessionResponse, error) {
	sess, err := s.directory.Get(sessionID)
	if err == nil {
		if _, ok := sess.Participant(userID); !ok {
			if _, pending := sess.PendingInvitation(userID); !pending {
				return nil, model.ErrForbidden
			}
		}
		return s.toSessionResponse(sess), nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	record, err := s.gameRepo.FindSession(ctx, s.db, sessionID)
	if err != nil {
		return nil, err
	}
	resp := recordToResponse(record)
	for _, p := range resp.Participants {
		if p.UserID == userID {
			return resp, nil
		}
	}
	return nil, model.ErrForbidden
}

// SubmitGuess は推測を処理します。同じレンマへの2回目の推測では、既存の
// レコードを載せたレスポンスと model.ErrDuplicateGuess を両方返します。
func (s *gameService) SubmitGuess(ctx context.Context, sessionID, userID uuid.UUID, req *model.GuessRequest) (*model.GuessResponse, error) {
	logger := middleware.GetLogger(ctx)

	sess, err := s.directory.Get(sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.processor.Process(ctx, sess, userID, req.Word)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateGuess) && outcome != nil {
			return guessResponse(sessionID, outcome), err
		}
		return nil, err
	}

	s.persistGuess(ctx, sess, outcome)

	if outcome.IsWin {
		logger.Info("Game completed",
			"session_id", sessionID.String(),
			"winner_id", userID.String(),
			"guesses", outcome.Guess.Sequence,
		)
	}
	return guessResponse(sessionID, outcome), nil
}

// persistGuess は受理された推測とその結果 (参加者の状態・勝敗・ポイント) を
// DBに書き込みます。失敗はログに残すだけで呼び出し元には返しません。
func (s *gameService) persistGuess(ctx context.Context, sess *game.Session, outcome *game.Outcome) {
	logger := middleware.GetLogger(ctx)
	g := outcome.Guess

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gameRepo.CreateGuess(ctx, tx, &model.GuessRecord{
			SessionID:   sess.ID(),
			UserID:      g.UserID,
			SurfaceWord: g.SurfaceWord,
			Lemma:       g.Lemma,
			Similarity:  g.Similarity,
			Rank:        g.Rank,
			Sequence:    g.Sequence,
			SubmittedAt: g.SubmittedAt,
		}); err != nil {
			return err
		}

		if !outcome.IsWin {
			return s.gameRepo.UpdateParticipant(ctx, tx, sess.ID(), g.UserID, map[string]interface{}{
				"best_similarity": gorm.Expr("GREATEST(best_similarity, ?)", g.Similarity),
			})
		}

		// 勝利: セッションを完了させ、勝者にポイントを付与する
		if err := s.gameRepo.UpdateSessionStatus(ctx, tx, sess.ID(), map[string]interface{}{
			"status":       string(model.StatusCompleted),
			"completed_at": sess.FinishedAt(),
		}); err != nil {
			return err
		}
		for _, p := range sess.Participants() {
			updates := map[string]interface{}{
				"best_similarity": p.BestSimilarity,
				"has_won":         p.HasWon,
			}
			if err := s.gameRepo.UpdateParticipant(ctx, tx, sess.ID(), p.UserID, updates); err != nil {
				return err
			}
			if p.HasWon {
				if err := s.userRepo.AddPoints(ctx, tx, p.UserID, s.cfg.Game.WinPoints); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to persist guess",
			"error", err,
			"session_id", sess.ID().String(),
			"lemma", g.Lemma,
		)
	}
}

// Invite は招待を発行し、招待相手にメールアドレスがあれば通知します。
// 通知の失敗は招待自体を失敗させません。
func (s *gameService) Invite(ctx context.Context, sessionID, inviterID uuid.UUID, req *model.InviteRequest) error {
	logger := middleware.GetLogger(ctx)

	sess, err := s.directory.Get(sessionID)
	if err != nil {
		return err
	}

	invitee, err := s.userRepo.FindByID(ctx, s.db, req.InviteeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("INVITEE_NOT_FOUND", "招待相手が見つかりません。", "invitee_id", model.ErrNotFound)
		}
		return err
	}

	inv, err := sess.Invite(inviterID, req.InviteeID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.gameRepo.CreateInvitation(ctx, tx, &model.Invitation{
			SessionID: sessionID,
			InviterID: inviterID,
			InviteeID: req.InviteeID,
			Status:    model.InvitationPending,
			CreatedAt: inv.CreatedAt,
		})
	})
	if err != nil && !errors.Is(err, model.ErrConflict) {
		logger.Error("Failed to persist invitation",
			"error", err,
			"session_id", sessionID.String(),
		)
	}

	if invitee.Email != "" {
		subject := "ゲームに招待されました"
		body := fmt.Sprintf("%s モードのゲームに招待されています。アプリから応答してください。", sess.Mode())
		if err := s.mailer.Send(ctx, invitee.Email, subject, body); err != nil {
			logger.Warn("Failed to send invitation email", "error", err)
		}
	}

	logger.Info("Invitation issued",
		"session_id", sessionID.String(),
		"invitee_id", req.InviteeID.String(),
	)
	return nil
}

// RespondInvitation は招待への応答を処理します
func (s *gameService) RespondInvitation(ctx context.Context, sessionID, inviteeID uuid.UUID, req *model.InvitationResponseRequest) (*model.GameSessionResponse, error) {
	logger := middleware.GetLogger(ctx)

	sess, err := s.directory.Get(sessionID)
	if err != nil {
		return nil, err
	}

	participant, err := sess.Respond(inviteeID, req.Accept)
	if err != nil {
		return nil, err
	}

	status := model.InvitationDeclined
	if req.Accept {
		status = model.InvitationAccepted
		s.directory.IndexUser(inviteeID, sessionID)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gameRepo.UpdateInvitationStatus(ctx, tx, sessionID, inviteeID, string(status)); err != nil {
			return err
		}
		if participant != nil {
			if err := s.gameRepo.CreateParticipant(ctx, tx, &model.Participant{
				SessionID: sessionID,
				UserID:    inviteeID,
				JoinedAt:  participant.JoinedAt,
			}); err != nil {
				return err
			}
		}
		// 応答によって Open -> Active に遷移した可能性がある
		return s.gameRepo.UpdateSessionStatus(ctx, tx, sessionID, map[string]interface{}{
			"status": string(sess.Status()),
		})
	})
	if err != nil && !errors.Is(err, model.ErrConflict) && !errors.Is(err, model.ErrInvitationNotFound) {
		logger.Error("Failed to persist invitation response",
			"error", err,
			"session_id", sessionID.String(),
		)
	}

	return s.toSessionResponse(sess), nil
}

// AbandonGame はセッションを放棄します (作成者のみ)
func (s *gameService) AbandonGame(ctx context.Context, sessionID, userID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	sess, err := s.directory.Get(sessionID)
	if err != nil {
		return err
	}
	if err := sess.Abandon(userID); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.gameRepo.UpdateSessionStatus(ctx, tx, sessionID, map[string]interface{}{
			"status":       string(model.StatusAbandoned),
			"completed_at": sess.FinishedAt(),
		})
	})
	if err != nil {
		logger.Error("Failed to persist abandon",
			"error", err,
			"session_id", sessionID.String(),
		)
	}

	logger.Info("Game abandoned", "session_id", sessionID.String())
	return nil
}

// SweepExpired は保持期間を過ぎた終端状態のセッションをメモリから破棄し、
// それらの出題語に紐づく順位表キャッシュを解放します
func (s *gameService) SweepExpired(ctx context.Context) int {
	removed := s.directory.Sweep(s.cfg.Game.Retention())
	for _, sess := range removed {
		s.engine.Release(sess.TargetLemma())
	}
	if len(removed) > 0 {
		middleware.GetLogger(ctx).Info("Swept finished sessions", "count", len(removed))
	}
	return len(removed)
}

// --- レスポンス組み立て ---

func (s *gameService) toSessionResponse(sess *game.Session) *model.GameSessionResponse {
	participants := sess.Participants()
	guesses := sess.Guesses()

	resp := &model.GameSessionResponse{
		SessionID:    sess.ID(),
		Mode:         sess.Mode(),
		Status:       sess.Status(),
		CreatorID:    sess.CreatorID(),
		CreatedAt:    sess.CreatedAt(),
		Participants: make([]model.ParticipantView, 0, len(participants)),
		Guesses:      make([]model.GuessResponse, 0, len(guesses)),
	}
	for _, p := range participants {
		resp.Participants = append(resp.Participants, model.ParticipantView{
			UserID:         p.UserID,
			JoinedAt:       p.JoinedAt,
			BestSimilarity: p.BestSimilarity,
			HasWon:         p.HasWon,
		})
	}
	for _, g := range guesses {
		resp.Guesses = append(resp.Guesses, model.GuessResponse{
			SessionID:   sess.ID(),
			UserID:      g.UserID,
			SurfaceWord: g.SurfaceWord,
			Lemma:       g.Lemma,
			Similarity:  g.Similarity,
			Rank:        g.Rank,
			Sequence:    g.Sequence,
			IsWin:       g.IsWin,
			Status:      resp.Status,
		})
	}
	return resp
}

func recordToResponse(record *model.GameSession) *model.GameSessionResponse {
	resp := &model.GameSessionResponse{
		SessionID:    record.SessionID,
		Mode:         record.Mode,
		Status:       record.Status,
		CreatorID:    record.CreatorID,
		CreatedAt:    record.CreatedAt,
		Participants: make([]model.ParticipantView, 0, len(record.Participants)),
		Guesses:      make([]model.GuessResponse, 0, len(record.Guesses)),
	}
	for _, p := range record.Participants {
		resp.Participants = append(resp.Participants, model.ParticipantView{
			UserID:         p.UserID,
			JoinedAt:       p.JoinedAt,
			BestSimilarity: p.BestSimilarity,
			HasWon:         p.HasWon,
		})
	}
	for _, g := range record.Guesses {
		resp.Guesses = append(resp.Guesses, model.GuessResponse{
			SessionID:   record.SessionID,
			UserID:      g.UserID,
			SurfaceWord: g.SurfaceWord,
			Lemma:       g.Lemma,
			Similarity:  g.Similarity,
			Rank:        g.Rank,
			Sequence:    g.Sequence,
			IsWin:       g.Rank != nil && *g.Rank == 0,
			Status:      record.Status,
		})
	}
	return resp
}

func guessResponse(sessionID uuid.UUID, outcome *game.Outcome) *model.GuessResponse {
	g := outcome.Guess
	return &model.GuessResponse{
		SessionID:   sessionID,
		UserID:      g.UserID,
		SurfaceWord: g.SurfaceWord,
		Lemma:       g.Lemma,
		Similarity:  g.Similarity,
		Rank:        g.Rank,
		Sequence:    g.Sequence,
		IsWin:       outcome.IsWin,
		Duplicate:   outcome.Duplicate,
		Status:      outcome.Status,
	}
}
