package webhook

import (
	"context"

	"github.com/Sanzcloud-web/Whisper/internal/repository"
)

type Sender interface {
	SendSessionRecord(ctx context.Context, record *repository.SessionRecord) error
}
