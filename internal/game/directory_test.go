// internal/game/directory_test.go
package game

import (
	"testing"
	"time"

	"semantus/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_CreateAndGet(t *testing.T) {
	d := NewDirectory()
	creator := uuid.New()

	s := d.Create(model.ModeSingleplayer, creator, "Baum", 1)
	require.NotNil(t, s)
	assert.Equal(t, 1, d.Len())

	got, err := d.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = d.Get(uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDirectory_ForUser(t *testing.T) {
	d := NewDirectory()
	creator := uuid.New()
	other := uuid.New()

	s1 := d.Create(model.ModeSingleplayer, creator, "Baum", 1)
	s2 := d.Create(model.ModeVersus, creator, "Haus", 1)
	d.Create(model.ModeSingleplayer, other, "Wald", 1)

	sessions := d.ForUser(creator)
	ids := make(map[uuid.UUID]bool)
	for _, s := range sessions {
		ids[s.ID()] = true
	}
	assert.Len(t, sessions, 2)
	assert.True(t, ids[s1.ID()])
	assert.True(t, ids[s2.ID()])

	assert.Len(t, d.ForUser(other), 1)
	assert.Empty(t, d.ForUser(uuid.New()))
}

func TestDirectory_IndexUser(t *testing.T) {
	d := NewDirectory()
	creator := uuid.New()
	joiner := uuid.New()

	s := d.Create(model.ModeCooperative, creator, "Baum", 1)
	assert.Empty(t, d.ForUser(joiner))

	d.IndexUser(joiner, s.ID())
	assert.Len(t, d.ForUser(joiner), 1)

	// 未登録のセッションに対しては何もしない
	d.IndexUser(joiner, uuid.New())
	assert.Len(t, d.ForUser(joiner), 1)
}

func TestDirectory_Remove(t *testing.T) {
	d := NewDirectory()
	creator := uuid.New()

	s := d.Create(model.ModeSingleplayer, creator, "Baum", 1)
	d.Remove(s.ID())

	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.ForUser(creator))

	// 二重削除は無害
	d.Remove(s.ID())
}

func TestDirectory_Sweep(t *testing.T) {
	d := NewDirectory()
	creator := uuid.New()

	finished := d.Create(model.ModeSingleplayer, creator, "Baum", 1)
	require.NoError(t, finished.Abandon(creator))
	running := d.Create(model.ModeSingleplayer, creator, "Haus", 1)

	// 終端から保持期間が経過するのを待つ
	time.Sleep(10 * time.Millisecond)

	removed := d.Sweep(time.Millisecond)
	require.Len(t, removed, 1)
	assert.Equal(t, finished.ID(), removed[0].ID())
	assert.Equal(t, 1, d.Len())

	_, err := d.Get(finished.ID())
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = d.Get(running.ID())
	assert.NoError(t, err)

	// 進行中のセッションは保持期間に関係なく残る
	assert.Empty(t, d.Sweep(0))
}
