package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/dbx"
	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/dmitrijs2005/videohub/internal/server/auth"
	"github.com/dmitrijs2005/videohub/internal/server/config"
	"github.com/dmitrijs2005/videohub/internal/server/models"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/blacklist"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/subscriptions"
	usersrepo "github.com/dmitrijs2005/videohub/internal/server/repositories/users"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/videos"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

// --- users ---

type fakeUsersRepo struct {
	byID    map[string]*models.User
	history map[string][]string
	nextID  int

	createErr error
	findErr   error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}, history: map[string][]string{}}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c := *u
	c.ID = fmt.Sprintf("u-%d", f.nextID)
	c.CreatedAt = time.Now()
	f.byID[c.ID] = &c
	return &c, nil
}

func (f *fakeUsersRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) SetRefreshToken(_ context.Context, id string, token *string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUsersRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) UpdateAccount(_ context.Context, id, fullName, email string) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.FullName, u.Email = fullName, email
	return u, nil
}

func (f *fakeUsersRepo) UpdateAvatar(_ context.Context, id string, m models.Media) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Avatar = m
	return u, nil
}

func (f *fakeUsersRepo) UpdateCoverImage(_ context.Context, id string, m models.Media) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.CoverImage = &m
	return u, nil
}

func (f *fakeUsersRepo) AppendWatchHistory(_ context.Context, userID, videoID string) error {
	f.history[userID] = append(f.history[userID], videoID)
	return nil
}

func (f *fakeUsersRepo) GetWatchHistory(_ context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	out := make([]models.WatchHistoryEntry, 0, len(f.history[userID]))
	for _, id := range f.history[userID] {
		out = append(out, models.WatchHistoryEntry{Video: models.Video{ID: id}})
	}
	return out, nil
}

// --- subscriptions / videos / blacklist ---

type fakeSubsRepo struct {
	edges map[[2]string]bool
	err   error
}

func (f *fakeSubsRepo) Create(_ context.Context, sub, ch string) error {
	if f.err != nil {
		return f.err
	}
	f.edges[[2]string{sub, ch}] = true
	return nil
}

func (f *fakeSubsRepo) Delete(_ context.Context, sub, ch string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.edges, [2]string{sub, ch})
	return nil
}

// profileSubsRepo computes the profile from the users fake.
type profileSubsRepo struct {
	*fakeSubsRepo
	users *fakeUsersRepo
}

func (f *profileSubsRepo) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	u, err := f.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	p := &models.ChannelProfile{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName, Avatar: u.Avatar}
	for e := range f.edges {
		if e[1] == u.ID {
			p.SubscribersCount++
			if e[0] == viewerID {
				p.IsSubscribed = true
			}
		}
		if e[0] == u.ID {
			p.ChannelsSubscribedToCount++
		}
	}
	return p, nil
}

type fakeVideosRepo struct {
	videos map[string]*models.Video
}

func (f *fakeVideosRepo) GetByID(_ context.Context, id string) (*models.Video, error) {
	if v, ok := f.videos[id]; ok {
		return v, nil
	}
	return nil, common.ErrorNotFound
}

type fakeBlacklist struct {
	tokens   map[string]time.Duration
	addErr   error
	checkErr error
}

func (f *fakeBlacklist) Add(_ context.Context, token string, ttl time.Duration) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.tokens[token] = ttl
	return nil
}

func (f *fakeBlacklist) Contains(_ context.Context, token string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	_, ok := f.tokens[token]
	return ok, nil
}

func (f *fakeBlacklist) PurgeExpired(context.Context) (int64, error) { return 0, nil }

// --- media ---

type fakeMedia struct {
	uploads   []string
	deleted   []string
	uploadErr error
	failOn    string
	deleteErr error
	n         int
}

func (f *fakeMedia) Upload(_ context.Context, localPath string) (*models.Media, error) {
	if f.uploadErr != nil || (f.failOn != "" && f.failOn == localPath) {
		return nil, errBoom
	}
	f.n++
	f.uploads = append(f.uploads, localPath)
	id := fmt.Sprintf("media/%d", f.n)
	return &models.Media{URL: "http://s3/" + id, StorageID: id}, nil
}

func (f *fakeMedia) Delete(_ context.Context, storageID string) error {
	f.deleted = append(f.deleted, storageID)
	return f.deleteErr
}

// --- manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	s  subscriptions.Repository
	v  *fakeVideosRepo
	bl *fakeBlacklist
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Subscriptions(dbx.DBTX) subscriptions.Repository { return m.s }
func (m *fakeRepoManager) Videos(dbx.DBTX) videos.Repository               { return m.v }
func (m *fakeRepoManager) Blacklist(dbx.DBTX) blacklist.Repository         { return m.bl }

// --- fixture ---

type fixture struct {
	svc   *UserService
	db    *sql.DB
	mock  sqlmock.Sqlmock
	users *fakeUsersRepo
	subs  *fakeSubsRepo
	vids  *fakeVideosRepo
	bl    *fakeBlacklist
	media *fakeMedia
	cfg   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := newFakeUsersRepo()
	subs := &fakeSubsRepo{edges: map[[2]string]bool{}}
	vids := &fakeVideosRepo{videos: map[string]*models.Video{}}
	bl := &fakeBlacklist{tokens: map[string]time.Duration{}}
	m := &fakeMedia{}

	cfg := &config.Config{
		AccessTokenSecret:            "access",
		RefreshTokenSecret:           "refresh",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		BlacklistTTL:                 24 * time.Hour,
		PasswordHashCost:             bcrypt.MinCost,
	}
	rm := &fakeRepoManager{u: users, s: &profileSubsRepo{fakeSubsRepo: subs, users: users}, v: vids, bl: bl}

	return &fixture{
		svc:   NewUserService(db, rm, bl, m, logging.Nop{}, cfg),
		db:    db,
		mock:  mock,
		users: users,
		subs:  subs,
		vids:  vids,
		bl:    bl,
		media: m,
		cfg:   cfg,
	}
}

// seedUser stores a user with the given password and returns it.
func (f *fixture) seedUser(t *testing.T, id, username, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return f.users.add(&models.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Full " + username,
		PasswordHash: hash,
		Avatar:       models.Media{URL: "http://s3/old-" + id, StorageID: "old-" + id},
	})
}
