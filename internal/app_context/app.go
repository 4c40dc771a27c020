package appcontext

import (
	"github.com/SeakMengs/MailBlast/internal/config"
	filestorage "github.com/SeakMengs/MailBlast/internal/file_storage"
	"github.com/SeakMengs/MailBlast/internal/repository"
	"github.com/SeakMengs/MailBlast/internal/spreadsheet"
	"github.com/SeakMengs/MailBlast/pkg/broadcast"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Repository provides access to in-memory data stores.
	Repository *repository.Repository

	// Broadcaster runs preview and send jobs against loaded datasets.
	Broadcaster *broadcast.Broadcaster

	// SheetLoader builds datasets from shared spreadsheet URLs and uploads.
	SheetLoader *spreadsheet.Loader

	// Archive keeps raw uploaded dataset files in object storage. Nil when
	// archiving is not configured.
	Archive *filestorage.Archive
}
