package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/config"
)

var _ portal.Repository = FirestoreRepository{}

type FirestoreRepository struct {
	firestore *firestore.Client
	cfg       config.Firestore
}

type firestoreSession struct {
	AccessToken  string    `firestore:"accessToken"`
	RefreshToken string    `firestore:"refreshToken"`
	Username     string    `firestore:"username"`
	Role         string    `firestore:"role"`
	CreatedAt    time.Time `firestore:"createdAt"`
	ExpiresAt    time.Time `firestore:"expiresAt"`
}

func newFirestoreRepository(ctx context.Context, cfg config.Firestore) (FirestoreRepository, error) {
	// Create a new Firestore client using application default credentials.
	if cfg.CredentialsFile == "" {
		client, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			return FirestoreRepository{}, err
		}

		return FirestoreRepository{client, cfg}, nil
	}

	// Create a new Firestore client using supplied credentials file.
	client, err := firestore.NewClient(ctx, cfg.ProjectID, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return FirestoreRepository{}, err
	}

	return FirestoreRepository{client, cfg}, nil
}

// sessions are keyed by their id so lookups need no query
func (f FirestoreRepository) SaveSession(ctx context.Context, s portal.Session) error {
	if err := s.Valid(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	doc := firestoreSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Username:     s.Username,
		Role:         string(s.Role),
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	}
	if _, err := f.firestore.Collection(f.cfg.SessionCollectionID).Doc(s.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("failed to write session %s: %w", s, err)
	}

	return nil
}

func (f FirestoreRepository) GetSession(ctx context.Context, id string) (portal.Session, error) {
	snap, err := f.firestore.Collection(f.cfg.SessionCollectionID).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return portal.Session{}, ErrSessionNotFound
	} else if err != nil {
		return portal.Session{}, fmt.Errorf("failed to get session document: %w", err)
	}

	var doc firestoreSession
	if err := snap.DataTo(&doc); err != nil {
		return portal.Session{}, fmt.Errorf("failed to deserialize session: %w", err)
	}

	return portal.Session{
		ID:           id,
		AccessToken:  doc.AccessToken,
		RefreshToken: doc.RefreshToken,
		Username:     doc.Username,
		Role:         portal.Role(doc.Role),
		CreatedAt:    doc.CreatedAt,
		ExpiresAt:    doc.ExpiresAt,
	}, nil
}

func (f FirestoreRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := f.firestore.Collection(f.cfg.SessionCollectionID).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (f FirestoreRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	documents, err := f.firestore.Collection(f.cfg.SessionCollectionID).Where("expiresAt", "<=", now).Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to get expired session documents: %w", err)
	}

	for _, document := range documents {
		if _, err := document.Ref.Delete(ctx); err != nil {
			return 0, fmt.Errorf("failed to delete session: %w", err)
		}
	}

	return len(documents), nil
}
