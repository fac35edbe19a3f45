package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"msp/config"

	logger "github.com/Bparsons0904/goLogger"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	driveFolderMimeType = "application/vnd.google-apps.folder"
	driveCallTimeout    = 30 * time.Second
	stagedFetchTimeout  = 30 * time.Second
)

// ErrNotConfigured is returned when the storage root folder id is missing.
// It must surface before any storage call is attempted.
var ErrNotConfigured = errors.New("storage root folder is not configured")

// StoredFile identifies a file after it landed in storage.
type StoredFile struct {
	ID          string `json:"fileId"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}

// StorageService is the contract the funnel expects from the cloud
// file-storage backend. The orchestrator and folder builder depend on this
// interface, never on the Drive client directly.
type StorageService interface {
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	UploadDirect(ctx context.Context, data []byte, mimeType, fileName, folderID string) (*StoredFile, error)
	UploadFromStaged(ctx context.Context, blobURL, fileName, mimeType, folderID string) (*StoredFile, error)
	MoveToFolder(ctx context.Context, fileID, folderID string) error
	GetWebViewLink(ctx context.Context, fileID string) (string, error)
}

// DriveService implements StorageService against Google Drive.
type DriveService struct {
	config     config.Config
	drive      *drive.Service
	httpClient *http.Client
	compress   *CompressService
	retry      RetryPolicy
	log        logger.Logger
}

func NewDriveService(cfg config.Config, compress *CompressService) (*DriveService, error) {
	log := logger.New("driveService")

	client := newGoogleHTTPClient(context.Background(), cfg, drive.DriveScope)
	svc, err := drive.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, log.Err("failed to create drive client", err)
	}

	return &DriveService{
		config: cfg,
		drive:  svc,
		httpClient: &http.Client{
			Timeout: stagedFetchTimeout,
		},
		compress: compress,
		retry:    NewUploadRetryPolicy(),
		log:      log,
	}, nil
}

// resolveParent substitutes the configured root folder for an empty parent
// and enforces the fail-fast configuration check.
func (s *DriveService) resolveParent(parentID string) (string, error) {
	if parentID != "" {
		return parentID, nil
	}
	if s.config.GoogleDriveFolderID == "" {
		return "", ErrNotConfigured
	}
	return s.config.GoogleDriveFolderID, nil
}

func (s *DriveService) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	log := s.log.Function("CreateFolder")
	defer log.Timer(fmt.Sprintf("create folder %s", name))()

	parent, err := s.resolveParent(parentID)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, driveCallTimeout)
	defer cancel()

	folder, err := s.drive.Files.Create(&drive.File{
		Name:     name,
		MimeType: driveFolderMimeType,
		Parents:  []string{parent},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", log.Err("failed to create folder", err, "name", name)
	}

	return folder.Id, nil
}

func (s *DriveService) UploadDirect(
	ctx context.Context,
	data []byte,
	mimeType, fileName, folderID string,
) (*StoredFile, error) {
	log := s.log.Function("UploadDirect")
	defer log.Timer(fmt.Sprintf("upload %s", fileName))()

	parent, err := s.resolveParent(folderID)
	if err != nil {
		return nil, err
	}

	body := s.compress.Compress(data, mimeType)
	return s.upload(ctx, body, mimeType, fileName, parent)
}

func (s *DriveService) UploadFromStaged(
	ctx context.Context,
	blobURL, fileName, mimeType, folderID string,
) (*StoredFile, error) {
	log := s.log.Function("UploadFromStaged")
	defer log.Timer(fmt.Sprintf("staged upload %s", fileName))()

	parent, err := s.resolveParent(folderID)
	if err != nil {
		return nil, err
	}

	data, err := s.fetchStaged(ctx, blobURL)
	if err != nil {
		return nil, log.Err("failed to fetch staged file", err, "fileName", fileName)
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	// Staged files were size-validated before staging, so no recompression.
	return s.upload(ctx, data, mimeType, fileName, parent)
}

func (s *DriveService) upload(
	ctx context.Context,
	data []byte,
	mimeType, fileName, folderID string,
) (*StoredFile, error) {
	var uploaded *drive.File

	err := s.retry.Do(ctx, "upload "+fileName, func() error {
		callCtx, cancel := context.WithTimeout(ctx, driveCallTimeout)
		defer cancel()

		var err error
		uploaded, err = s.drive.Files.Create(&drive.File{
			Name:    fileName,
			Parents: []string{folderID},
		}).Media(bytes.NewReader(data)).
			Fields("id, name, webViewLink").
			Context(callCtx).Do()
		return err
	})
	if err != nil {
		return nil, s.log.Err("failed to upload file", err, "fileName", fileName)
	}

	return &StoredFile{
		ID:          uploaded.Id,
		Name:        uploaded.Name,
		WebViewLink: uploaded.WebViewLink,
	}, nil
}

// MoveToFolder relocates an uploaded file by replacing its parent set with
// the target folder. Current parents are looked up first so the update can
// remove them all.
func (s *DriveService) MoveToFolder(ctx context.Context, fileID, folderID string) error {
	log := s.log.Function("MoveToFolder")

	ctx, cancel := context.WithTimeout(ctx, driveCallTimeout)
	defer cancel()

	file, err := s.drive.Files.Get(fileID).Fields("parents").Context(ctx).Do()
	if err != nil {
		return log.Err("failed to look up file parents", err, "fileID", fileID)
	}

	_, err = s.drive.Files.Update(fileID, nil).
		AddParents(folderID).
		RemoveParents(strings.Join(file.Parents, ",")).
		Fields("id").
		Context(ctx).Do()
	if err != nil {
		return log.Err("failed to move file", err, "fileID", fileID, "folderID", folderID)
	}

	return nil
}

func (s *DriveService) GetWebViewLink(ctx context.Context, fileID string) (string, error) {
	log := s.log.Function("GetWebViewLink")

	ctx, cancel := context.WithTimeout(ctx, driveCallTimeout)
	defer cancel()

	file, err := s.drive.Files.Get(fileID).Fields("webViewLink").Context(ctx).Do()
	if err != nil {
		return "", log.Err("failed to get shareable link", err, "fileID", fileID)
	}
	if file.WebViewLink == "" {
		return "", log.ErrMsg("file has no shareable link")
	}

	return file.WebViewLink, nil
}

func (s *DriveService) fetchStaged(ctx context.Context, blobURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blobURL, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("staged file fetch returned %s", res.Status)
	}

	return io.ReadAll(res.Body)
}
