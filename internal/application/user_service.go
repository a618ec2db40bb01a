package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driveup/account-service/internal/domain/entity"
	repo "github.com/driveup/account-service/internal/domain/repository"
	"github.com/driveup/account-service/internal/mail"
	"github.com/driveup/account-service/pkg/helpers"
)

var (
	ErrEmailRequired  = errors.New("email parameter is required")
	ErrMissingFields  = errors.New("email and ID token are required")
	ErrAuthentication = errors.New("user not found or authentication failed")
)

// Service owns the user-record lifecycle: the mapping from an email
// identity to its profile object and optional avatar object in the
// blob store. All operations are single round trips against the store;
// concurrent calls for the same email race there and the last put wins.
type Service struct {
	Store  repo.BlobStore
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	Mail   *mail.Publisher // optional; nil disables the welcome email
}

func NewService(store repo.BlobStore, jwt *helpers.JWTManager, logger *logrus.Logger, pub *mail.Publisher) *Service {
	return &Service{Store: store, JWT: jwt, Logger: logger, Mail: pub}
}

// Blob layout per identity, keyed by the raw email string. The store
// has no real directories; the trailing slash is a key convention.
func userFolder(email string) string  { return email + "/" }
func userInfoKey(email string) string { return email + "/userInfo.json" }
func avatarKey(email string) string   { return email + "/profilePic.png" }

// Exists reports whether a profile object is stored for the email.
// The check lists the email's folder and matches the full userInfo.json
// key, so "a@x.com" is never confused with "a@x.com.evil/...".
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, ErrEmailRequired
	}
	keys, err := s.Store.ListPrefix(ctx, userFolder(email))
	if err != nil {
		return false, err
	}
	target := userInfoKey(email)
	for _, k := range keys {
		if k == target {
			return true, nil
		}
	}
	return false, nil
}

type RegisterInput struct {
	Email    string
	FullName string
	IDToken  string // accepted as a credential value, not verified against the provider
	GoogleID string
}

// Register writes a fresh profile record and issues a session token.
// There is no existence pre-check: re-registering silently replaces the
// prior record, resetting createdAt and lastLogin (last writer wins).
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, *entity.UserRecord, error) {
	if in.Email == "" || in.IDToken == "" {
		return "", nil, ErrMissingFields
	}
	now := time.Now().UTC()
	rec := &entity.UserRecord{
		Email:     in.Email,
		Name:      in.FullName,
		GoogleID:  in.GoogleID,
		CreatedAt: now,
		LastLogin: now,
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", nil, err
	}
	if err := s.Store.Put(ctx, userInfoKey(in.Email), "application/json", b); err != nil {
		return "", nil, err
	}
	token, _, err := s.JWT.Issue(in.Email)
	if err != nil {
		return "", nil, err
	}

	// Best effort; registration never fails because of the mail queue.
	if s.Mail != nil {
		if err := s.Mail.PublishJSON(ctx, mail.WelcomeJob(in.Email, in.FullName)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", in.Email).Warn("failed to enqueue welcome email")
		}
	}

	return token, rec, nil
}

// Login reads the profile record, bumps lastLogin, writes it back, and
// issues a fresh token. Any failure along the way — missing record,
// store fault, corrupt JSON — surfaces as the same ErrAuthentication;
// callers cannot distinguish the causes, only the logs can.
// The returned avatar URL is nil when no avatar is stored.
func (s *Service) Login(ctx context.Context, email, idToken string) (string, *entity.UserRecord, *string, error) {
	if email == "" || idToken == "" {
		return "", nil, nil, ErrMissingFields
	}

	key := userInfoKey(email)
	b, err := s.Store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repo.ErrObjectNotFound) && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("profile read failed")
		}
		return "", nil, nil, ErrAuthentication
	}
	rec := &entity.UserRecord{}
	if err := json.Unmarshal(b, rec); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("profile record corrupt")
		}
		return "", nil, nil, ErrAuthentication
	}

	// Read-modify-write without a conditional write; concurrent logins
	// for the same email may lose a lastLogin update.
	rec.LastLogin = time.Now().UTC()
	updated, err := json.Marshal(rec)
	if err != nil {
		return "", nil, nil, ErrAuthentication
	}
	if err := s.Store.Put(ctx, key, "application/json", updated); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("profile write-back failed")
		}
		return "", nil, nil, ErrAuthentication
	}

	token, _, err := s.JWT.Issue(email)
	if err != nil {
		return "", nil, nil, ErrAuthentication
	}

	return token, rec, s.probeAvatar(ctx, email), nil
}

// probeAvatar resolves the avatar URL if the object is present. Only
// "not found" is silent; unexpected store faults are logged, but both
// degrade to nil for the caller.
func (s *Service) probeAvatar(ctx context.Context, email string) *string {
	key := avatarKey(email)
	ok, err := s.Store.Exists(ctx, key)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("avatar probe failed")
		}
		return nil
	}
	if !ok {
		return nil
	}
	url := s.Store.PublicURL(key)
	return &url
}

// UploadAvatar overwrites the avatar object wholesale and returns its
// public URL. The content type is always image/png regardless of the
// uploaded bytes, matching the stored key's .png convention.
func (s *Service) UploadAvatar(ctx context.Context, email string, data []byte) (string, error) {
	if email == "" {
		return "", ErrEmailRequired
	}
	key := avatarKey(email)
	if err := s.Store.Put(ctx, key, "image/png", data); err != nil {
		return "", err
	}
	return s.Store.PublicURL(key), nil
}
