// internal/game/session_test.go
package game

import (
	"errors"
	"testing"

	"semantus/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_InitialStatus(t *testing.T) {
	creator := uuid.New()

	t.Run("正常系: Singleplayerは作成と同時にActive", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		assert.Equal(t, model.StatusActive, s.Status())
		assert.Len(t, s.Participants(), 1)
	})

	t.Run("正常系: CoopとVersusはOpenで始まる", func(t *testing.T) {
		for _, mode := range []model.GameMode{model.ModeCooperative, model.ModeVersus} {
			s := NewSession(mode, creator, "Baum", 1)
			assert.Equal(t, model.StatusOpen, s.Status())
		}
	})

	t.Run("正常系: 作成者は自動的に参加者になる", func(t *testing.T) {
		s := NewSession(model.ModeVersus, creator, "Baum", 1)
		p, ok := s.Participant(creator)
		require.True(t, ok)
		assert.Equal(t, creator, p.UserID)
		assert.False(t, p.HasWon)
	})
}

func TestSession_Invite(t *testing.T) {
	creator := uuid.New()
	invitee := uuid.New()

	t.Run("正常系: 招待の発行と保留状態", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		inv, err := s.Invite(creator, invitee)
		require.NoError(t, err)
		assert.Equal(t, creator, inv.InviterID)
		assert.Equal(t, invitee, inv.InviteeID)

		pending, ok := s.PendingInvitation(invitee)
		require.True(t, ok)
		assert.Equal(t, creator, pending.InviterID)
	})

	t.Run("異常系: Singleplayerでは招待できない", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		_, err := s.Invite(creator, invitee)
		assert.ErrorIs(t, err, model.ErrInvalidMode)
	})

	t.Run("異常系: 参加者でないユーザーは招待できない", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		_, err := s.Invite(uuid.New(), invitee)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("異常系: すでに招待済みの相手", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		_, err := s.Invite(creator, invitee)
		require.NoError(t, err)
		_, err = s.Invite(creator, invitee)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("異常系: すでに参加している相手", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		_, err := s.Invite(creator, invitee)
		require.NoError(t, err)
		_, err = s.Respond(invitee, true)
		require.NoError(t, err)
		_, err = s.Invite(creator, invitee)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("異常系: 終端状態のセッション", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		require.NoError(t, s.Abandon(creator))
		_, err := s.Invite(creator, invitee)
		assert.ErrorIs(t, err, model.ErrSessionClosed)
	})
}

func TestSession_Respond(t *testing.T) {
	creator := uuid.New()
	invitee := uuid.New()

	t.Run("正常系: 承諾で参加者が増えActiveに遷移する", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		_, err := s.Invite(creator, invitee)
		require.NoError(t, err)

		p, err := s.Respond(invitee, true)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, invitee, p.UserID)
		assert.Equal(t, model.StatusActive, s.Status())
	})

	t.Run("正常系: 全招待が応答済みならActiveに遷移する (辞退のみでも)", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 3)
		_, err := s.Invite(creator, invitee)
		require.NoError(t, err)

		p, err := s.Respond(invitee, false)
		require.NoError(t, err)
		assert.Nil(t, p)
		// 発行済みの招待がすべて応答済みになったので開始する
		assert.Equal(t, model.StatusActive, s.Status())
		assert.Len(t, s.Participants(), 1)
	})

	t.Run("異常系: 招待されていないユーザーの応答", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		_, err := s.Respond(uuid.New(), true)
		assert.ErrorIs(t, err, model.ErrInvitationNotFound)
	})

	t.Run("異常系: 応答済みの招待への再応答", func(t *testing.T) {
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		_, err := s.Invite(creator, invitee)
		require.NoError(t, err)
		_, err = s.Respond(invitee, true)
		require.NoError(t, err)
		_, err = s.Respond(invitee, true)
		assert.ErrorIs(t, err, model.ErrInvitationNotFound)
	})
}

func TestSession_Abandon(t *testing.T) {
	creator := uuid.New()

	t.Run("正常系: 作成者は放棄できる", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		require.NoError(t, s.Abandon(creator))
		assert.Equal(t, model.StatusAbandoned, s.Status())
		assert.NotNil(t, s.FinishedAt())
	})

	t.Run("異常系: 作成者以外は放棄できない", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		err := s.Abandon(uuid.New())
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("異常系: 終端状態からは遷移できない", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		require.NoError(t, s.Abandon(creator))
		err := s.Abandon(creator)
		assert.ErrorIs(t, err, model.ErrSessionClosed)
	})
}

func TestSession_ApplyGuess(t *testing.T) {
	creator := uuid.New()

	t.Run("正常系: 推測が追記され連番が振られる", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		g1, err := s.ApplyGuess(creator, "Wald", "Wald", 0.8, 3, false)
		require.NoError(t, err)
		g2, err := s.ApplyGuess(creator, "Haus", "Haus", 0.2, 10, false)
		require.NoError(t, err)
		assert.Equal(t, 1, g1.Sequence)
		assert.Equal(t, 2, g2.Sequence)

		p, _ := s.Participant(creator)
		assert.Equal(t, 0.8, p.BestSimilarity)
	})

	t.Run("正常系: 重複レンマは既存レコードと共に拒否される", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		_, err := s.ApplyGuess(creator, "Wälder", "Wald", 0.8, 3, false)
		require.NoError(t, err)

		g, err := s.ApplyGuess(creator, "Wald", "Wald", 0.8, 3, false)
		assert.ErrorIs(t, err, model.ErrDuplicateGuess)
		require.NotNil(t, g)
		assert.Equal(t, "Wälder", g.SurfaceWord)
		assert.Equal(t, 1, g.Sequence)
	})

	t.Run("正常系: 的中でセッションが完了する", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		g, err := s.ApplyGuess(creator, "Baum", "Baum", 1.0, 0, true)
		require.NoError(t, err)
		assert.True(t, g.IsWin)
		assert.Equal(t, model.StatusCompleted, s.Status())

		p, _ := s.Participant(creator)
		assert.True(t, p.HasWon)
	})

	t.Run("正常系: Coopの的中は全参加者の勝利になる", func(t *testing.T) {
		partner := uuid.New()
		s := NewSession(model.ModeCooperative, creator, "Baum", 1)
		_, err := s.Invite(creator, partner)
		require.NoError(t, err)
		_, err = s.Respond(partner, true)
		require.NoError(t, err)

		_, err = s.ApplyGuess(partner, "Baum", "Baum", 1.0, 0, true)
		require.NoError(t, err)

		for _, p := range s.Participants() {
			assert.True(t, p.HasWon, "participant %s", p.UserID)
		}
	})

	t.Run("正常系: Versusの的中は的中者のみの勝利になる", func(t *testing.T) {
		partner := uuid.New()
		s := NewSession(model.ModeVersus, creator, "Baum", 1)
		_, err := s.Invite(creator, partner)
		require.NoError(t, err)
		_, err = s.Respond(partner, true)
		require.NoError(t, err)

		_, err = s.ApplyGuess(partner, "Baum", "Baum", 1.0, 0, true)
		require.NoError(t, err)

		winner, _ := s.Participant(partner)
		loser, _ := s.Participant(creator)
		assert.True(t, winner.HasWon)
		assert.False(t, loser.HasWon)
	})

	t.Run("異常系: Openのセッションでは推測できない", func(t *testing.T) {
		s := NewSession(model.ModeVersus, creator, "Baum", 1)
		_, err := s.ApplyGuess(creator, "Wald", "Wald", 0.8, 3, false)
		assert.ErrorIs(t, err, model.ErrForbidden)

		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "SESSION_NOT_STARTED", appErr.Code)
	})

	t.Run("異常系: 参加者以外は推測できない", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		_, err := s.ApplyGuess(uuid.New(), "Wald", "Wald", 0.8, 3, false)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("異常系: 完了後の推測は拒否される", func(t *testing.T) {
		s := NewSession(model.ModeSingleplayer, creator, "Baum", 1)
		_, err := s.ApplyGuess(creator, "Baum", "Baum", 1.0, 0, true)
		require.NoError(t, err)
		_, err = s.ApplyGuess(creator, "Wald", "Wald", 0.8, 3, false)
		assert.ErrorIs(t, err, model.ErrSessionClosed)
	})
}
