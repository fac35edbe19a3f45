package services

import (
	"context"
	"fmt"

	"msp/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	applicantFolderName   = "Applicant Details"
	coApplicantFolderName = "Co-Applicant Details"
)

// FoldersService builds the deterministic folder hierarchy for one
// application: root -> role folders -> per-document-type subfolders. A
// document type only earns a subfolder when it has more than one file or is
// flagged always-subfolder; single-file types land directly in the role
// folder to keep the common case flat.
type FoldersService struct {
	storage StorageService
	log     logger.Logger
}

func NewFoldersService(storage StorageService) *FoldersService {
	return &FoldersService{
		storage: storage,
		log:     logger.New("foldersService"),
	}
}

func (s *FoldersService) Build(
	ctx context.Context,
	applicantName, applicationNumber string,
	applicantFiles, coApplicantFiles models.FileIndex,
	coApplicantName string,
) (*models.FolderStructure, error) {
	log := s.log.Function("Build")
	defer log.Timer("build folder structure")()

	rootName := fmt.Sprintf("%s - %s", applicantName, applicationNumber)
	mainFolderID, err := s.storage.CreateFolder(ctx, rootName, "")
	if err != nil {
		return nil, log.Err("failed to create main folder", err, "name", rootName)
	}

	mainFolderLink, err := s.storage.GetWebViewLink(ctx, mainFolderID)
	if err != nil {
		return nil, log.Err("failed to get main folder link", err)
	}

	applicantFolderID, err := s.storage.CreateFolder(ctx, applicantFolderName, mainFolderID)
	if err != nil {
		return nil, log.Err("failed to create applicant folder", err)
	}

	structure := &models.FolderStructure{
		MainFolderID:          mainFolderID,
		ApplicantFolderID:     applicantFolderID,
		ApplicantSubfolders:   make(map[string]string),
		CoApplicantSubfolders: make(map[string]string),
		MainFolderLink:        mainFolderLink,
	}

	for _, doc := range models.ApplicantDocuments {
		files := applicantFiles[doc.Key]
		if len(files) == 0 {
			continue
		}
		if len(files) > 1 || doc.AlwaysSubfolder {
			subfolderID, err := s.storage.CreateFolder(ctx, doc.Name, applicantFolderID)
			if err != nil {
				return nil, log.Err("failed to create document subfolder", err, "document", doc.Key)
			}
			structure.ApplicantSubfolders[doc.Key] = subfolderID
		}
	}

	if coApplicantName != "" {
		coFolderID, err := s.storage.CreateFolder(ctx, coApplicantFolderName, mainFolderID)
		if err != nil {
			return nil, log.Err("failed to create co-applicant folder", err)
		}
		structure.CoApplicantFolderID = coFolderID

		for _, doc := range models.CoApplicantDocuments {
			files := coApplicantFiles[doc.Key]
			if len(files) > 1 {
				subfolderID, err := s.storage.CreateFolder(ctx, doc.Name, coFolderID)
				if err != nil {
					return nil, log.Err("failed to create co-applicant subfolder", err, "document", doc.Key)
				}
				structure.CoApplicantSubfolders[doc.Key] = subfolderID
			}
		}
	}

	log.Info("folder structure created",
		"applicationNumber", applicationNumber,
		"applicantSubfolders", len(structure.ApplicantSubfolders),
		"coApplicantSubfolders", len(structure.CoApplicantSubfolders),
	)
	return structure, nil
}
