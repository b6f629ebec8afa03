package merge

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/mem"
)

func seeded(t *testing.T, contacts ...*contact.Contact) *mem.Store {
	t.Helper()
	s := mem.New()
	for _, c := range contacts {
		require.NoError(t, s.Add(c))
	}
	return s
}

func TestSynchronizeNewContactsInserted(t *testing.T) {
	s := seeded(t)
	e := NewEngine(s)

	f := contact.New("New Person", "0123456789", "new@remote.io", "")
	require.NoError(t, e.Synchronize(map[string]contact.Contact{f.ID: *f}))

	got, err := s.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Person", got.Name)
	assert.ElementsMatch(t, []string{f.ID}, s.Index().NameBucket("new"))
	assert.ElementsMatch(t, []string{f.ID}, s.Index().DomainBucket("remote.io"))
}

func TestSynchronizeRemoteNewerWins(t *testing.T) {
	local := contact.New("John Doe", "01234567890", "john@example.com", "")
	s := seeded(t, local)

	remote := *local
	remote.Email = "john.doe@example.com"
	remote.UpdatedAt = local.UpdatedAt.Add(20 * time.Second)

	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{remote.ID: remote}))

	got, err := s.Get(local.ID)
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", got.Email)

	// Domain unchanged, so the bucket still holds the contact and no
	// stale bucket appears.
	assert.ElementsMatch(t, []string{local.ID}, s.Index().DomainBucket("example.com"))
	_, domains := s.Index().Stats()
	assert.Equal(t, 1, domains)
}

func TestSynchronizeLocalWinsTies(t *testing.T) {
	local := contact.New("Tie Case", "0123456789", "local@here.io", "")
	s := seeded(t, local)

	remote := *local
	remote.Email = "remote@there.io"
	// UpdatedAt exactly equal: local must win.

	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{remote.ID: remote}))

	got, err := s.Get(local.ID)
	require.NoError(t, err)
	assert.Equal(t, "local@here.io", got.Email)
}

func TestSynchronizeOlderRemoteIgnored(t *testing.T) {
	local := contact.New("Old Remote", "0123456789", "", "")
	s := seeded(t, local)

	remote := *local
	remote.Name = "Stale Name"
	remote.UpdatedAt = local.UpdatedAt.Add(-time.Minute)

	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{remote.ID: remote}))

	got, err := s.Get(local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old Remote", got.Name)
}

func TestSynchronizeConflictAbortsEverything(t *testing.T) {
	local := contact.New("Conflicted", "0123456789", "victim@here.io", "")
	s := seeded(t, local)
	snapBefore := s.Snapshot()

	foreign := make(map[string]contact.Contact, 10)
	bad := *local
	bad.CreatedAt = local.CreatedAt.Add(time.Hour) // poisoned identifier
	bad.UpdatedAt = local.UpdatedAt.Add(time.Hour)
	foreign[bad.ID] = bad
	for i := 0; i < 9; i++ {
		c := contact.New(fmt.Sprintf("Innocent %d", i), fmt.Sprintf("070000000%d", i), "", "")
		foreign[c.ID] = *c
	}

	err := NewEngine(s).Synchronize(foreign)
	assert.Equal(t, rdxerr.CodeSynchronization, rdxerr.CodeOf(err))

	// Zero of the ten records applied.
	assert.Equal(t, snapBefore, s.Snapshot())
	assert.Equal(t, 1, s.Total())
	got, gerr := s.Get(local.ID)
	require.NoError(t, gerr)
	assert.Equal(t, "victim@here.io", got.Email)
}

func TestSynchronizeIdentityDedup(t *testing.T) {
	local := contact.New("John Doe", "08123456789", "john@local.io", "")
	s := seeded(t, local)

	// Same person, different identifier and phone formatting.
	dup := contact.New("john doe", "+2348123456789", "john@remote.io", "")

	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{dup.ID: *dup}))

	assert.Equal(t, 1, s.Total(), "identity duplicate must not grow the store")
	_, err := s.Get(dup.ID)
	assert.Error(t, err)
}

func TestSynchronizeTombstoneDedup(t *testing.T) {
	local := contact.New("Deleted Person", "08123456789", "", "")
	s := seeded(t, local)
	require.NoError(t, s.Delete(local.ID))

	// A locally deleted person must not come back under a fresh id.
	back := contact.New("Deleted Person", "+2348123456789", "", "")
	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{back.ID: *back}))

	assert.Equal(t, 1, s.Total())
	assert.Equal(t, 0, s.Len())
}

func TestSynchronizeLaterTombstoneBeatsEdit(t *testing.T) {
	local := contact.New("Soon Gone", "0123456789", "gone@here.io", "")
	s := seeded(t, local)

	remote := *local
	remote.Deleted = true
	remote.UpdatedAt = local.UpdatedAt.Add(time.Minute)

	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{remote.ID: remote}))

	got, err := s.Get(local.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Empty(t, s.Index().NameBucket("soon"))
	assert.Empty(t, s.Index().DomainBucket("here.io"))
}

func TestSynchronizeLaterEditUndoesTombstone(t *testing.T) {
	local := contact.New("Back Again", "0123456789", "back@here.io", "")
	s := seeded(t, local)
	require.NoError(t, s.Delete(local.ID))

	deleted, err := s.Get(local.ID)
	require.NoError(t, err)

	remote := deleted
	remote.Deleted = false
	remote.UpdatedAt = deleted.UpdatedAt.Add(time.Minute)

	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{remote.ID: remote}))

	got, err := s.Get(local.ID)
	require.NoError(t, err)
	assert.False(t, got.Deleted, "a later edit undoes an earlier tombstone")
	assert.ElementsMatch(t, []string{local.ID}, s.Index().NameBucket("back"))
	assert.Equal(t, 1, s.Len())
}

func TestSynchronizeReplacementReindexes(t *testing.T) {
	local := contact.New("Old Name", "0123456789", "user@old.org", "")
	s := seeded(t, local)

	remote := *local
	remote.Name = "New Name"
	remote.Email = "user@new.org"
	remote.UpdatedAt = local.UpdatedAt.Add(time.Second)

	require.NoError(t, NewEngine(s).Synchronize(map[string]contact.Contact{remote.ID: remote}))

	assert.Empty(t, s.Index().NameBucket("old"))
	assert.Empty(t, s.Index().DomainBucket("old.org"))
	assert.ElementsMatch(t, []string{local.ID}, s.Index().NameBucket("new"))
	assert.ElementsMatch(t, []string{local.ID}, s.Index().DomainBucket("new.org"))
}

func TestSynchronizeEmptySnapshotIsNoOp(t *testing.T) {
	local := contact.New("Stay Put", "0123456789", "", "")
	s := seeded(t, local)
	before := s.Snapshot()

	require.NoError(t, NewEngine(s).Synchronize(nil))
	assert.Equal(t, before, s.Snapshot())
}

func TestSynchronizeManyRecordsDeterministic(t *testing.T) {
	build := func() (*mem.Store, map[string]contact.Contact) {
		s := mem.New()
		foreign := make(map[string]contact.Contact)
		for i := 0; i < 50; i++ {
			c := contact.New(fmt.Sprintf("Bulk %02d", i), fmt.Sprintf("07000000%02d", i), "", "")
			foreign[c.ID] = *c
		}
		return s, foreign
	}

	s1, f := build()
	require.NoError(t, NewEngine(s1).Synchronize(f))
	assert.Equal(t, 50, s1.Len())

	// Re-synchronizing the same snapshot is idempotent (ties go local).
	before := s1.Snapshot()
	require.NoError(t, NewEngine(s1).Synchronize(f))
	assert.Equal(t, before, s1.Snapshot())
}
