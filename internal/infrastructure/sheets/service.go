package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ErrMissingCredentials is returned when no service account credentials are configured.
var ErrMissingCredentials = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")

// Config holds the service account credentials. Inline JSON wins over the file.
type Config struct {
	CredentialsJSON string
	CredentialsFile string
}

// NewService creates a Sheets service authenticated as a service account.
func NewService(ctx context.Context, cfg Config, opts ...option.ClientOption) (*gsheets.Service, error) {
	creds, err := cfg.credentials()
	if err != nil {
		return nil, err
	}

	opts = append([]option.ClientOption{
		option.WithCredentialsJSON(creds),
		option.WithScopes(gsheets.SpreadsheetsScope),
	}, opts...)

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func (c Config) credentials() ([]byte, error) {
	if inline := strings.TrimSpace(c.CredentialsJSON); inline != "" {
		return []byte(inline), nil
	}

	path := strings.TrimSpace(c.CredentialsFile)
	if path == "" {
		return nil, ErrMissingCredentials
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}
