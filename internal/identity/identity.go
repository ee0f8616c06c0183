// Package identity resolves the acting user from a Firebase ID token.
package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// User is the authenticated caller as the rest of the system sees it.
type User struct {
	UID         string
	DisplayName string
	Email       string
}

// DisplayIdentity is the name written into a record's self party (the
// debtor on a debt, the creditor on a receivable). Display name first,
// email as fallback.
func (u User) DisplayIdentity() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Verifier turns a bearer ID token into a User.
type Verifier interface {
	VerifyToken(ctx context.Context, idToken string) (User, error)
}

// FirebaseVerifier verifies tokens against Firebase Auth and resolves the
// user's profile for the display identity.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin app for the project and
// returns a verifier backed by its auth client.
func NewFirebaseVerifier(ctx context.Context, projectID string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("NewFirebaseVerifier: init app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewFirebaseVerifier: auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

// VerifyToken validates the ID token and loads the user's profile.
func (v *FirebaseVerifier) VerifyToken(ctx context.Context, idToken string) (User, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return User{}, fmt.Errorf("VerifyToken: %w", err)
	}

	record, err := v.client.GetUser(ctx, token.UID)
	if err != nil {
		// The token is valid even if the profile lookup fails; fall back to
		// claims so a transient lookup error does not lock the user out.
		u := User{UID: token.UID}
		if email, ok := token.Claims["email"].(string); ok {
			u.Email = email
		}
		if name, ok := token.Claims["name"].(string); ok {
			u.DisplayName = name
		}
		return u, nil
	}

	return User{
		UID:         token.UID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
	}, nil
}

var _ Verifier = (*FirebaseVerifier)(nil)
