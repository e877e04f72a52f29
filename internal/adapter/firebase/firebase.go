// Package firebase performs the one-time Firebase startup step: it reads the
// service-account credentials from an explicit path and returns the client
// handles the rest of the process is built from.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebasesdk "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Options controls how the Firebase app is initialized.
type Options struct {
	CredentialsFile string
	ProjectID       string // optional; read from the credentials file when empty
}

// Clients are the handles produced at startup. They are safe for concurrent use.
type Clients struct {
	Auth      *firebaseauth.Client
	Firestore *firestore.Client // nil unless requested
}

// Open initializes Firebase from opts. When withFirestore is false no
// Firestore connection is opened.
func Open(ctx context.Context, opts Options, withFirestore bool) (*Clients, error) {
	if opts.CredentialsFile == "" {
		return nil, errors.New("firebase: credentials file not configured")
	}
	if _, err := os.Stat(opts.CredentialsFile); err != nil {
		return nil, fmt.Errorf("firebase: credentials file: %w", err)
	}

	var conf *firebasesdk.Config
	if opts.ProjectID != "" {
		conf = &firebasesdk.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebasesdk.NewApp(ctx, conf, option.WithCredentialsFile(opts.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}

	clients := &Clients{Auth: authClient}
	if withFirestore {
		fs, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase: firestore client: %w", err)
		}
		clients.Firestore = fs
	}
	return clients, nil
}
