package questions

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records every statement and models pgx commit/rollback semantics.
// Exec results are scripted per call index.
type fakeTx struct {
	pgx.Tx
	execs      []string
	tags       []string // command tag per call, defaults to "UPDATE 1"
	failOn     int      // 1-based call index that errors, 0 = never
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, sql)
	n := len(t.execs)
	if t.failOn == n {
		return pgconn.CommandTag{}, assert.AnError
	}
	tag := "UPDATE 1"
	if n <= len(t.tags) {
		tag = t.tags[n-1]
	}
	return pgconn.NewCommandTag(tag), nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx    *fakeTx
	tags  []string // command tag per direct Exec call
	calls int
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) { return d.tx, nil }

func (d *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.calls++
	tag := "UPDATE 1"
	if d.calls <= len(d.tags) {
		tag = d.tags[d.calls-1]
	}
	return pgconn.NewCommandTag(tag), nil
}

func (d *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (d *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestActivateDemotesThenPromotesInOneTx(t *testing.T) {
	tx := &fakeTx{}
	repo := NewRepository(&fakeDB{tx: tx})

	require.NoError(t, repo.Activate(context.Background(), 1, 7))

	require.Len(t, tx.execs, 2)
	assert.Contains(t, tx.execs[0], "is_active = FALSE")
	assert.Contains(t, tx.execs[0], "show_results = FALSE")
	assert.Contains(t, tx.execs[1], "is_active = TRUE")
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestActivateRollsBackWhenPromoteFails(t *testing.T) {
	tx := &fakeTx{failOn: 2}
	repo := NewRepository(&fakeDB{tx: tx})

	err := repo.Activate(context.Background(), 1, 7)
	require.Error(t, err)
	require.Len(t, tx.execs, 2)
	assert.False(t, tx.committed, "demote must not land without the promote")
	assert.True(t, tx.rolledBack)
}

func TestActivateUnknownQuestionRollsBack(t *testing.T) {
	tx := &fakeTx{tags: []string{"UPDATE 1", "UPDATE 0"}}
	repo := NewRepository(&fakeDB{tx: tx})

	err := repo.Activate(context.Background(), 1, 99)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestSubmitAnswerStoresOnlyFirst(t *testing.T) {
	db := &fakeDB{tags: []string{"INSERT 0 1", "INSERT 0 0"}}
	repo := NewRepository(db)

	stored, err := repo.SubmitAnswer(context.Background(), 7, 42, "Ja")
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = repo.SubmitAnswer(context.Background(), 7, 42, "Nei")
	require.NoError(t, err)
	assert.False(t, stored, "second submission is a silent no-op")
}
