package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/db"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
)

// NewDB opens a migrated SQLite database in the test's temp dir.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	database, err := db.Init(db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	err = db.Migrate(context.Background(), database.DB, db.DriverSQLite)
	require.NoError(t, err)

	return database
}

func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(NewDB(t))
}

// Member is a seeded user with a profile and the four default lists.
type Member struct {
	User    *model.User
	Profile *model.Profile
	Lists   map[model.ListSlot]*model.List
}

func (m *Member) ID() string {
	return m.User.ID
}

func (m *Member) List(slot model.ListSlot) *model.List {
	return m.Lists[slot]
}

// SeedMember inserts a user the way registration does, bypassing password hashing.
func SeedMember(t *testing.T, store *repository.Store, username string) *Member {
	t.Helper()

	ctx := context.Background()
	member := &Member{Lists: map[model.ListSlot]*model.List{}}

	err := store.Do(ctx, func(uow *repository.UnitOfWork) error {
		user := &model.User{
			ID:           uuidFor(username),
			Email:        username + "@example.com",
			PasswordHash: "x",
			CreatedAt:    testNow(),
		}
		err := uow.Users.Create(ctx, user)
		if err != nil {
			return err
		}
		member.User = user

		profile := &model.Profile{UserID: user.ID, Username: username}
		err = uow.Profiles.Create(ctx, profile)
		if err != nil {
			return err
		}
		member.Profile = profile

		for _, slot := range model.DefaultSlots {
			list := &model.List{
				UserID:    user.ID,
				Name:      slot.DefaultName(),
				ListType:  slot.ListType(),
				Slot:      slot,
				IsDefault: true,
			}
			err = uow.Lists.Create(ctx, list)
			if err != nil {
				return err
			}
			member.Lists[slot] = list
		}
		return nil
	})
	require.NoError(t, err)

	return member
}

// SeedContent inserts a catalog item with an empty metadata blob.
func SeedContent(t *testing.T, store *repository.Store, contentType model.ContentType, title string) *model.Content {
	t.Helper()

	source := model.SourceTMDb
	if contentType == model.ContentTypeBook {
		source = model.SourceOpenLibrary
	}

	content := &model.Content{
		Source:     source,
		ExternalID: "ext-" + uuidFor(title),
		Type:       contentType,
		Title:      title,
		MetaJSON:   "{}",
	}
	err := store.Read().Contents.Create(context.Background(), content)
	require.NoError(t, err)
	return content
}

// Follow makes follower follow followed.
func Follow(t *testing.T, store *repository.Store, follower, followed *Member) {
	t.Helper()

	_, err := store.Read().Follows.Create(context.Background(), follower.ID(), followed.ID())
	require.NoError(t, err)
}
