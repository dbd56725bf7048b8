package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/samihashehatta/leovegs-task/internal/api/metrics"
	"github.com/samihashehatta/leovegs-task/internal/core/domain"
	"github.com/samihashehatta/leovegs-task/internal/core/ports"
)

// UserService implements the user lifecycle and the authorization policy.
// The cache is optional; a nil cache disables read caching entirely.
type UserService struct {
	repo   ports.UserRepository
	signer ports.TokenSigner
	cache  ports.UserCache
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, signer ports.TokenSigner, cache ports.UserCache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, signer: signer, cache: cache, logger: logger}
}

// Create registers a new user. The record is persisted first to obtain the
// assigned id, the access token is signed over {id, email, role}, and a
// second write attaches the token. The two writes are not transactional: a
// failure between them leaves a user without a token.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:           input.Name,
		Email:          input.Email,
		PasswordDigest: string(digest),
		Role:           input.Role,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, err
	}

	token, err := s.signer.Sign(created.ID, created.Email, created.Role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAccessToken(ctx, created.ID, token); err != nil {
		return nil, err
	}
	created.AccessToken = token

	metrics.UsersCreatedTotal.WithLabelValues(created.Role).Inc()
	s.logger.Info().Int64("user_id", created.ID).Str("role", created.Role).Msg("user created")

	return created, nil
}

// Get returns the user identified by id, or domain.ErrUserNotFound. Reads go
// through the cache when one is configured; cache failures are logged and
// ignored.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed")
		} else if cached != nil {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		} else {
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", id).Msg("user cache write failed")
		}
	}
	return user, nil
}

// Update applies a partial update to the user identified by id. Setting the
// role requires an ADMIN actor; that rule is enforced before the target is
// even looked up. A new password is hashed before it reaches the repository.
// The freshly reloaded record is returned so callers always observe what was
// persisted.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput, actor domain.Actor) (*domain.User, error) {
	if input.Role != nil && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrRoleChangeForbidden
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	patch := ports.UserPatch{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	}
	if input.Password != nil {
		digest, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(digest)
		patch.PasswordDigest = &hashed
	}

	if !patch.Empty() {
		if err := s.repo.Update(ctx, id, patch); err != nil {
			s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update user")
			return nil, err
		}
	}

	s.invalidate(ctx, id)
	s.logger.Info().Int64("user_id", id).Int64("actor_id", actor.ID).Msg("user updated")

	return s.repo.FindByID(ctx, id)
}

// Delete hard-deletes the user identified by id, or returns
// domain.ErrUserNotFound when no such record exists.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	metrics.UsersDeletedTotal.Inc()
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// AuthorizeAction gates every read, update and delete:
//   - nobody may delete their own account,
//   - a USER may only act on their own record,
//   - an ADMIN may act on any record, subject to the self-delete rule.
//
// After those checks it verifies the actor's own record still exists; a
// deleted caller holding a stale token gets domain.ErrActorNotFound.
func (s *UserService) AuthorizeAction(ctx context.Context, targetID int64, actor domain.Actor, action ports.Action) error {
	selfDelete := action == ports.ActionDelete && actor.ID == targetID
	crossAccount := actor.Role == domain.RoleUser && actor.ID != targetID
	if selfDelete || crossAccount {
		metrics.PolicyDenialsTotal.WithLabelValues(string(action)).Inc()
		return domain.ErrForbiddenAction
	}

	if _, err := s.repo.FindByID(ctx, actor.ID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrActorNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", id).Msg("user cache invalidation failed")
	}
}
