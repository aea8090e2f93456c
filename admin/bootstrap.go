package admin

import (
	"context"

	"paperpaints/logs"
	"paperpaints/models"
	"paperpaints/session"
	"paperpaints/store"
)

// Bootstrap seeds the first admin from ADMIN_EMAIL and ADMIN_PASSWORD. It
// does nothing once any admin exists, and reports whether it created one.
func Bootstrap(ctx context.Context, admins *store.Admins, email, password string) (bool, error) {
	email = store.NormalizeEmail(email)
	if email == "" || len(password) < session.MinSecretLength {
		return false, nil
	}

	exists, err := admins.Any(ctx)
	if err != nil || exists {
		return false, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	if err := admins.Create(ctx, &models.Admin{Email: email, PasswordHash: hash}); err != nil {
		return false, err
	}

	logs.Logger.WithField("email", email).Info("bootstrap admin created")
	return true, nil
}
