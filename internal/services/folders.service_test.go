package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"msp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createdFolder struct {
	ID     string
	Name   string
	Parent string
}

type uploadCall struct {
	FileName string
	MimeType string
	FolderID string
	BlobURL  string
	Direct   bool
}

type moveCall struct {
	FileID   string
	FolderID string
}

// fakeStorage records every storage call so tests can assert on the exact
// folder hierarchy and file placement an operation produced.
type fakeStorage struct {
	mu      sync.Mutex
	nextID  int
	Folders []createdFolder
	Uploads []uploadCall
	Moves   []moveCall

	CreateErr error
	UploadErr error
	MoveErr   error
}

func (f *fakeStorage) CreateFolder(_ context.Context, name, parentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return "", f.CreateErr
	}

	f.nextID++
	id := fmt.Sprintf("folder-%d", f.nextID)
	f.Folders = append(f.Folders, createdFolder{ID: id, Name: name, Parent: parentID})
	return id, nil
}

func (f *fakeStorage) UploadDirect(
	_ context.Context,
	_ []byte,
	mimeType, fileName, folderID string,
) (*StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UploadErr != nil {
		return nil, f.UploadErr
	}

	f.Uploads = append(f.Uploads, uploadCall{
		FileName: fileName,
		MimeType: mimeType,
		FolderID: folderID,
		Direct:   true,
	})
	return &StoredFile{ID: "file-" + fileName, Name: fileName, WebViewLink: "https://drive.example/" + fileName}, nil
}

func (f *fakeStorage) UploadFromStaged(
	_ context.Context,
	blobURL, fileName, mimeType, folderID string,
) (*StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UploadErr != nil {
		return nil, f.UploadErr
	}

	f.Uploads = append(f.Uploads, uploadCall{
		FileName: fileName,
		MimeType: mimeType,
		FolderID: folderID,
		BlobURL:  blobURL,
	})
	return &StoredFile{ID: "file-" + fileName, Name: fileName, WebViewLink: "https://drive.example/" + fileName}, nil
}

func (f *fakeStorage) MoveToFolder(_ context.Context, fileID, folderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.MoveErr != nil {
		return f.MoveErr
	}

	f.Moves = append(f.Moves, moveCall{FileID: fileID, FolderID: folderID})
	return nil
}

func (f *fakeStorage) GetWebViewLink(_ context.Context, fileID string) (string, error) {
	return "https://drive.example/folders/" + fileID, nil
}

func (f *fakeStorage) folderByName(name string) (createdFolder, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, folder := range f.Folders {
		if folder.Name == name {
			return folder, true
		}
	}
	return createdFolder{}, false
}

func TestFoldersService_Build_ApplicantOnly(t *testing.T) {
	storage := &fakeStorage{}
	service := NewFoldersService(storage)

	files := models.FileIndex{
		"pan":     {{Name: "pan.pdf"}},
		"aadhaar": {{Name: "aadhaar.pdf"}},
	}

	structure, err := service.Build(
		context.Background(), "Ravi Kumar", "MSP-12345678", files, nil, "")
	require.NoError(t, err)

	root, ok := storage.folderByName("Ravi Kumar - MSP-12345678")
	require.True(t, ok)
	assert.Equal(t, "", root.Parent)
	assert.Equal(t, root.ID, structure.MainFolderID)
	assert.Equal(t, "https://drive.example/folders/"+root.ID, structure.MainFolderLink)

	applicant, ok := storage.folderByName("Applicant Details")
	require.True(t, ok)
	assert.Equal(t, root.ID, applicant.Parent)
	assert.Equal(t, applicant.ID, structure.ApplicantFolderID)

	// Single-file document types stay flat.
	assert.Empty(t, structure.ApplicantSubfolders)
	assert.Empty(t, structure.CoApplicantFolderID)
}

func TestFoldersService_Build_MultiFileGetsSubfolder(t *testing.T) {
	storage := &fakeStorage{}
	service := NewFoldersService(storage)

	files := models.FileIndex{
		"bank_statement": {{Name: "jan.pdf"}, {Name: "feb.pdf"}},
		"pan":            {{Name: "pan.pdf"}},
	}

	structure, err := service.Build(
		context.Background(), "Ravi Kumar", "MSP-12345678", files, nil, "")
	require.NoError(t, err)

	require.Contains(t, structure.ApplicantSubfolders, "bank_statement")
	assert.NotContains(t, structure.ApplicantSubfolders, "pan")

	subfolder, ok := storage.folderByName("Bank Statement")
	require.True(t, ok)
	assert.Equal(t, structure.ApplicantFolderID, subfolder.Parent)
}

func TestFoldersService_Build_AlwaysSubfolderWithSingleFile(t *testing.T) {
	storage := &fakeStorage{}
	service := NewFoldersService(storage)

	files := models.FileIndex{
		"property_photos_and_videos": {{Name: "site.mp4"}},
	}

	structure, err := service.Build(
		context.Background(), "Ravi Kumar", "MSP-12345678", files, nil, "")
	require.NoError(t, err)

	require.Contains(t, structure.ApplicantSubfolders, "property_photos_and_videos")

	subfolder, ok := storage.folderByName("Property Photos and Videos")
	require.True(t, ok)
	assert.Equal(t, structure.ApplicantFolderID, subfolder.Parent)
}

func TestFoldersService_Build_CoApplicant(t *testing.T) {
	storage := &fakeStorage{}
	service := NewFoldersService(storage)

	applicantFiles := models.FileIndex{"pan": {{Name: "pan.pdf"}}}
	coFiles := models.FileIndex{
		"co_pan":    {{Name: "co_pan.pdf"}},
		"co_income": {{Name: "payslip1.pdf"}, {Name: "payslip2.pdf"}},
	}

	structure, err := service.Build(
		context.Background(), "Ravi Kumar", "MSP-12345678", applicantFiles, coFiles, "Priya Kumar")
	require.NoError(t, err)

	coFolder, ok := storage.folderByName("Co-Applicant Details")
	require.True(t, ok)
	assert.Equal(t, structure.MainFolderID, coFolder.Parent)
	assert.Equal(t, coFolder.ID, structure.CoApplicantFolderID)

	require.Contains(t, structure.CoApplicantSubfolders, "co_income")
	assert.NotContains(t, structure.CoApplicantSubfolders, "co_pan")
}

func TestFoldersService_Build_NoCoApplicantFolderWithoutName(t *testing.T) {
	storage := &fakeStorage{}
	service := NewFoldersService(storage)

	coFiles := models.FileIndex{"co_pan": {{Name: "co_pan.pdf"}}}

	structure, err := service.Build(
		context.Background(), "Ravi Kumar", "MSP-12345678", nil, coFiles, "")
	require.NoError(t, err)

	_, ok := storage.folderByName("Co-Applicant Details")
	assert.False(t, ok)
	assert.Empty(t, structure.CoApplicantFolderID)
}

func TestFoldersService_Build_StorageError(t *testing.T) {
	storage := &fakeStorage{CreateErr: ErrNotConfigured}
	service := NewFoldersService(storage)

	_, err := service.Build(
		context.Background(), "Ravi Kumar", "MSP-12345678", nil, nil, "")
	require.Error(t, err)
}
