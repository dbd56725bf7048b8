package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
	"github.com/samihashehatta/leovegs-task/internal/core/ports"
)

type stubUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	copy.CreatedAt = time.Now().UTC()
	copy.UpdatedAt = copy.CreatedAt
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, patch ports.UserPatch) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if patch.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *patch.Email {
				return domain.ErrEmailTaken
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.PasswordDigest != nil {
		u.PasswordDigest = *patch.PasswordDigest
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubUserRepo) SetAccessToken(_ context.Context, id int64, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.AccessToken = token
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubSigner struct {
	err error
}

func (s *stubSigner) Sign(id int64, email, role string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("signed.%d.%s.%s", id, email, role), nil
}

type stubCache struct {
	entries     map[int64]*domain.User
	sets        int
	invalidated []int64
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[int64]*domain.User)}
}

func (c *stubCache) Get(_ context.Context, id int64) (*domain.User, error) {
	return cloneUser(c.entries[id]), nil
}

func (c *stubCache) Set(_ context.Context, user *domain.User) error {
	c.entries[user.ID] = cloneUser(user)
	c.sets++
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, id int64) error {
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func newTestService(repo ports.UserRepository, cache ports.UserCache) *UserService {
	return NewUserService(repo, &stubSigner{}, cache, zerolog.Nop())
}

func strptr(s string) *string { return &s }

func TestUserService_Create_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ng!pass",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordDigest == "Str0ng!pass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte("Str0ng!pass")); err != nil {
		t.Fatalf("stored digest does not match password: %v", err)
	}
	if user.AccessToken == "" {
		t.Fatalf("expected access token, got empty")
	}

	// the token must be attached to the persisted record too
	stored, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.AccessToken != user.AccessToken {
		t.Fatalf("persisted token %q does not match returned token %q", stored.AccessToken, user.AccessToken)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	input := ports.CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "Str0ng!pass", Role: domain.RoleUser}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Create_SignerFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubSigner{err: errors.New("boom")}, nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Carol", Email: "carol@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	}); err == nil {
		t.Fatalf("expected signer error to propagate")
	}

	// the first write is not rolled back: the record exists without a token
	stored, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected record to exist: %v", err)
	}
	if stored.AccessToken != "" {
		t.Fatalf("expected empty token, got %q", stored.AccessToken)
	}
}

func TestUserService_Get(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Dora", Email: "dora@example.com", Password: "Str0ng!pass", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name != "Dora" || got.Email != "dora@example.com" || got.Role != domain.RoleAdmin {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Get_ServesFromCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubCache()
	svc := newTestService(repo, cache)

	cache.entries[7] = &domain.User{ID: 7, Name: "Cached", Email: "cached@example.com", Role: domain.RoleUser}

	got, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name != "Cached" {
		t.Fatalf("expected cached record, got %+v", got)
	}
}

func TestUserService_Get_PopulatesCacheOnMiss(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubCache()
	svc := newTestService(repo, cache)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Eve", Email: "eve@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), created.ID); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
	if cache.entries[created.ID] == nil {
		t.Fatalf("expected record cached under id %d", created.ID)
	}
}

func TestUserService_Update_RoleChangeForbiddenForNonAdmin(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)

	// the role check fires before the target existence check: the target
	// does not exist, yet the caller still gets the role error
	_, err := svc.Update(context.Background(), 99, ports.UpdateUserInput{
		Role: strptr(domain.RoleAdmin),
	}, domain.Actor{ID: 1, Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrRoleChangeForbidden) {
		t.Fatalf("expected ErrRoleChangeForbidden, got %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)

	_, err := svc.Update(context.Background(), 99, ports.UpdateUserInput{
		Name: strptr("Ghost"),
	}, domain.Actor{ID: 1, Role: domain.RoleAdmin})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_PartialFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Frank", Email: "frank@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{
		Name: strptr("Franklin"),
	}, domain.Actor{ID: created.ID, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Franklin" {
		t.Fatalf("expected name updated, got %q", updated.Name)
	}
	if updated.Email != "frank@example.com" {
		t.Fatalf("email must be untouched, got %q", updated.Email)
	}
}

func TestUserService_Update_HashesNewPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Grace", Email: "grace@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{
		Password: strptr("N3w!passwd"),
	}, domain.Actor{ID: created.ID, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.PasswordDigest == "N3w!passwd" {
		t.Fatalf("plaintext password leaked into the record")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordDigest), []byte("N3w!passwd")); err != nil {
		t.Fatalf("digest does not match new password: %v", err)
	}
}

func TestUserService_Update_InvalidatesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubCache()
	svc := newTestService(repo, cache)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Heidi", Email: "heidi@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	cache.entries[created.ID] = cloneUser(created)

	if _, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{
		Name: strptr("Heidi II"),
	}, domain.Actor{ID: created.ID, Role: domain.RoleUser}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != created.ID {
		t.Fatalf("expected cache invalidation for id %d, got %v", created.ID, cache.invalidated)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Ivan", Email: "ivan@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)
	if err := svc.Delete(context.Background(), 42); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_AuthorizeAction(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	regular, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "User", Email: "user@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	admin, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Admin", Email: "admin@example.com", Password: "Str0ng!pass", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	userActor := domain.Actor{ID: regular.ID, Role: domain.RoleUser}
	adminActor := domain.Actor{ID: admin.ID, Role: domain.RoleAdmin}

	cases := []struct {
		name     string
		targetID int64
		actor    domain.Actor
		action   ports.Action
		wantErr  error
	}{
		{"user reads self", regular.ID, userActor, ports.ActionRead, nil},
		{"user updates self", regular.ID, userActor, ports.ActionUpdate, nil},
		{"user reads other", admin.ID, userActor, ports.ActionRead, domain.ErrForbiddenAction},
		{"user updates other", admin.ID, userActor, ports.ActionUpdate, domain.ErrForbiddenAction},
		{"user deletes other", admin.ID, userActor, ports.ActionDelete, domain.ErrForbiddenAction},
		{"user deletes self", regular.ID, userActor, ports.ActionDelete, domain.ErrForbiddenAction},
		{"admin reads other", regular.ID, adminActor, ports.ActionRead, nil},
		{"admin updates other", regular.ID, adminActor, ports.ActionUpdate, nil},
		{"admin deletes other", regular.ID, adminActor, ports.ActionDelete, nil},
		{"admin deletes self", admin.ID, adminActor, ports.ActionDelete, domain.ErrForbiddenAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.AuthorizeAction(context.Background(), tc.targetID, tc.actor, tc.action)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUserService_AuthorizeAction_ActorRecordGone(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	target, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Target", Email: "target@example.com", Password: "Str0ng!pass", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// actor id 999 holds a structurally valid token but no record
	ghost := domain.Actor{ID: 999, Role: domain.RoleAdmin}
	if err := svc.AuthorizeAction(context.Background(), target.ID, ghost, ports.ActionRead); !errors.Is(err, domain.ErrActorNotFound) {
		t.Fatalf("expected ErrActorNotFound, got %v", err)
	}
}

// Mirrors the full lifecycle: a USER and an ADMIN are created, the USER may
// only touch itself, the ADMIN may read and delete the USER but not itself.
func TestUserService_LifecycleScenario(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, ports.CreateUserInput{Name: "A", Email: "a@example.com", Password: "Str0ng!pass", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	b, err := svc.Create(ctx, ports.CreateUserInput{Name: "B", Email: "b@example.com", Password: "Str0ng!pass", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	actorA := domain.Actor{ID: a.ID, Role: domain.RoleUser}
	actorB := domain.Actor{ID: b.ID, Role: domain.RoleAdmin}

	if err := svc.AuthorizeAction(ctx, a.ID, actorA, ports.ActionRead); err != nil {
		t.Fatalf("A reading own record: %v", err)
	}
	if err := svc.AuthorizeAction(ctx, b.ID, actorA, ports.ActionRead); !errors.Is(err, domain.ErrForbiddenAction) {
		t.Fatalf("A reading B should be forbidden, got %v", err)
	}
	if err := svc.AuthorizeAction(ctx, a.ID, actorB, ports.ActionRead); err != nil {
		t.Fatalf("B reading A: %v", err)
	}
	if err := svc.AuthorizeAction(ctx, a.ID, actorA, ports.ActionDelete); !errors.Is(err, domain.ErrForbiddenAction) {
		t.Fatalf("A deleting itself should be forbidden, got %v", err)
	}
	if err := svc.AuthorizeAction(ctx, b.ID, actorB, ports.ActionDelete); !errors.Is(err, domain.ErrForbiddenAction) {
		t.Fatalf("B deleting itself should be forbidden, got %v", err)
	}
	if err := svc.AuthorizeAction(ctx, a.ID, actorB, ports.ActionDelete); err != nil {
		t.Fatalf("B deleting A should be allowed, got %v", err)
	}
	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete A: %v", err)
	}
	if _, err := svc.Get(ctx, a.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected A gone, got %v", err)
	}
}
